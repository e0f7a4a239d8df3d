package dto

// PageRequest 通用分页参数
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize 补全默认分页参数
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset 计算偏移量
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
