// Package paginate provides page/offset slicing and pagination descriptors
// for list endpoints.
package paginate

import (
	"fmt"
	"math"
)

// Slice returns the sub-sequence of items for the given page. Page numbers
// below 1 are clamped to 1. The result is a fresh slice; an out-of-range
// page yields an empty one.
func Slice[T any](items []T, perPage, page int) []T {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		return []T{}
	}

	start := perPage * (page - 1)
	if start >= len(items) {
		return []T{}
	}

	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// LimitOffset converts a page size and page number into SQL LIMIT/OFFSET
// values, clamping the page number to a minimum of 1.
func LimitOffset(perPage, page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return perPage, perPage * (page - 1)
}

// Descriptor summarizes a paged result set. Note that LastPage is computed by
// rounding totalCount/perPage to the nearest integer while TotalPage uses the
// ceiling; the two disagree by one when the last page is less than half full.
type Descriptor struct {
	DataPerPage     int    `json:"data_per_page"`
	NextPage        int    `json:"next_page"`
	PrevPage        int    `json:"prev_page"`
	FirstPage       int    `json:"first_page"`
	LastPage        int    `json:"last_page"`
	NextPageURL     string `json:"next_page_url"`
	PreviousPageURL string `json:"previous_page_url"`
	FirstPageURL    string `json:"first_page_url"`
	LastPageURL     string `json:"last_page_url"`
	TotalPage       int    `json:"total_page"`
	TotalData       int64  `json:"total_data"`
}

// NewDescriptor builds a pagination descriptor for the given page size, page
// number and total row count. baseURL is the current request URL without
// query parameters; page links append per_page/page_number parameters to it.
func NewDescriptor(baseURL string, perPage, page int, totalCount int64) Descriptor {
	lastPage := 0
	totalPage := 0
	if perPage > 0 {
		ratio := float64(totalCount) / float64(perPage)
		lastPage = int(math.Round(ratio))
		totalPage = int(math.Ceil(ratio))
	}

	return Descriptor{
		DataPerPage:     perPage,
		NextPage:        page + 1,
		PrevPage:        page - 1,
		FirstPage:       1,
		LastPage:        lastPage,
		NextPageURL:     pageURL(baseURL, perPage, page+1),
		PreviousPageURL: pageURL(baseURL, perPage, page-1),
		FirstPageURL:    pageURL(baseURL, perPage, 1),
		LastPageURL:     pageURL(baseURL, perPage, lastPage),
		TotalPage:       totalPage,
		TotalData:       totalCount,
	}
}

func pageURL(baseURL string, perPage, page int) string {
	return fmt.Sprintf("%s?per_page=%d&page_number=%d", baseURL, perPage, page)
}
