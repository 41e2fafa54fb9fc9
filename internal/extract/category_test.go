package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category extraction", func() {
	var (
		extractor *Extractor
		input     string
		fields    Fields
	)

	BeforeEach(func() {
		extractor = newTestExtractor()
	})

	JustBeforeEach(func() {
		fields = extractor.Extract(input)
	})

	When("one category clearly dominates", func() {
		BeforeEach(func() {
			input = "fuel diesel gas station"
		})

		It("wins on keyword count", func() {
			Expect(fields.Category).To(Equal("Gas"))
		})
	})

	When("two categories score equally", func() {
		BeforeEach(func() {
			input = "coffee fuel"
		})

		It("resolves the tie to the earlier category", func() {
			Expect(fields.Category).To(Equal("Food"))
		})
	})

	When("keywords repeat", func() {
		BeforeEach(func() {
			input = "pizza pizza pizza\nfuel"
		})

		It("counts every occurrence", func() {
			Expect(fields.Category).To(Equal("Food"))
		})
	})

	When("no keyword appears", func() {
		BeforeEach(func() {
			input = "zzz qqq vvv"
		})

		It("extracts no category", func() {
			Expect(fields.Category).To(BeEmpty())
		})
	})
})
