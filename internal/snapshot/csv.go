package snapshot

import "strings"

// CSVContact is one row of the contacts CSV export. CurrentCompany and
// CurrentTitle are the joined values of the contact's active business
// records.
type CSVContact struct {
	FirstName      string
	LastName       string
	Nickname       string
	Email          string
	Phone          string
	Address        string
	Birthday       string
	Notes          string
	CurrentCompany string
	CurrentTitle   string
	CreatedAt      string
}

var csvHeader = []string{
	"First Name", "Last Name", "Nickname", "Email", "Phone", "Address",
	"Birthday", "Notes", "Current Company", "Current Title", "Created At",
}

// EncodeCSV renders the contacts CSV. Any field containing a comma,
// quote, or newline is wrapped in double quotes with internal quotes
// doubled. Rows are joined by \n with no trailing newline.
func EncodeCSV(rows []CSVContact) []byte {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range rows {
		fields := []string{
			r.FirstName, r.LastName, r.Nickname, r.Email, r.Phone, r.Address,
			r.Birthday, r.Notes, r.CurrentCompany, r.CurrentTitle, r.CreatedAt,
		}
		for i, f := range fields {
			fields[i] = escapeCSV(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

func escapeCSV(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
