package query_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ZacIsrael/dev-camper-api/query"
)

var _ = Describe("Pagination", func() {
	page := func(p, limit int) query.Query {
		q := query.New()
		q.Page, q.Limit = p, limit
		return q
	}

	Specify("first page of three", func() {
		p := query.NewPagination(page(1, 10), 25)
		Expect(p.Next).To(Equal(&query.Link{Page: 2, Limit: 10}))
		Expect(p.Prev).To(BeNil())
	})

	Specify("middle page", func() {
		p := query.NewPagination(page(2, 10), 25)
		Expect(p.Next).To(Equal(&query.Link{Page: 3, Limit: 10}))
		Expect(p.Prev).To(Equal(&query.Link{Page: 1, Limit: 10}))
	})

	Specify("last page", func() {
		p := query.NewPagination(page(3, 10), 25)
		Expect(p.Next).To(BeNil())
		Expect(p.Prev).To(Equal(&query.Link{Page: 2, Limit: 10}))
	})

	Specify("exact fit has no next page", func() {
		p := query.NewPagination(page(2, 10), 20)
		Expect(p.Next).To(BeNil())
	})

	Specify("unlimited has no links", func() {
		p := query.NewPagination(page(1, 0), 500)
		Expect(p.Next).To(BeNil())
		Expect(p.Prev).To(BeNil())
	})
})
