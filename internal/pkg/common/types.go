package common

// SuccessResponse 成功響應的共同外殼
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ListResponse 分頁列表響應
type ListResponse struct {
	Success bool        `json:"success"`
	Items   interface{} `json:"items"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// Pagination 分頁參數
type Pagination struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize 套用預設值與上限
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
