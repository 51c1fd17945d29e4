package pkg

import "strconv"

// DefaultPageSize 列表页每页条数
const DefaultPageSize = 10

// Page 一页结果，页码从 1 开始
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// ParsePage 解析 query 里的页码，缺省或非数字一律按第 1 页
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Window 按总数换算分页窗口：页码小于 1 取第 1 页，超过末页取末页。
// 空结果也算一页，方便模板始终有页对象可渲染。
func Window(total int64, size, page int) (number, totalPages, offset int) {
	if size < 1 {
		size = 1
	}
	totalPages = int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	number = page
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	offset = (number - 1) * size
	return number, totalPages, offset
}

// NewPage 把查好的一页数据和窗口信息拼成 Page
func NewPage[T any](items []T, number, totalPages int) Page[T] {
	return Page[T]{
		Items:      items,
		Number:     number,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}

// Paginate 纯内存分页，切片不会被修改，页码语义同 Window
func Paginate[T any](items []T, size, page int) Page[T] {
	if size < 1 {
		size = 1
	}
	number, totalPages, offset := Window(int64(len(items)), size, page)
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	return NewPage(items[offset:end], number, totalPages)
}
