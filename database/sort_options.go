package database

const (
	SortIDAsc        = "id_asc"
	SortLastNameAsc  = "last_name_asc"
	SortFirstNameAsc = "first_name_asc"
	SortIDDesc       = "id_desc"
)

const DefaultSortOrder = SortIDAsc

// IsValidSortOrder checks if a string is a valid person sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortIDAsc, SortIDDesc, SortLastNameAsc, SortFirstNameAsc:
		return true
	default:
		return false
	}
}

// OrderClause maps a sort order to the ORDER BY expression for the person table.
// Unknown values fall back to DefaultSortOrder.
func OrderClause(order string) string {
	switch order {
	case SortIDDesc:
		return "id DESC"
	case SortLastNameAsc:
		return "last_name ASC, first_name ASC, id ASC"
	case SortFirstNameAsc:
		return "first_name ASC, last_name ASC, id ASC"
	default:
		return "id ASC"
	}
}
