package feed

import "strconv"

// PageSize is the number of posts on every timeline page.
const PageSize = 10

// ParsePage turns the ?page= query value into a page number. Anything that
// is not a positive integer means the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// window clamps number into [1, pages] for count items and returns the
// clamped number, the page count and the offset of the first item.
func window(count int64, size, number int) (page, pages, offset int) {
	pages = int((count + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	page = number
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, pages, (page - 1) * size
}

// Clamp returns the page number a listing of count items actually shows for
// the requested number.
func Clamp(count int64, number int) int {
	page, _, _ := window(count, PageSize, number)
	return page
}
