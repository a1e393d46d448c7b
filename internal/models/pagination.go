package models

// PerPage is the fixed size of every catalog page.
const PerPage = 6

func Offset(page int) int {
	return (page - 1) * PerPage
}

func PageCount(total int) int {
	if total <= 0 {
		return 0
	}

	return (total + PerPage - 1) / PerPage
}

type ProductPage struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
}
