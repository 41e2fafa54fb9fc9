package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Merchant extraction", func() {
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

	When("a bill-to block names the payer", func() {
		BeforeEach(func() {
			input = "Super Store\n123 Main St\nBill To:\nAcme Consulting\nNet 30 #4521"
		})

		It("prefers the bill-to name over the first lines", func() {
			Expect(fields.Merchant).To(Equal("Acme Consulting"))
		})
	})

	When("a later candidate contains a known merchant word", func() {
		BeforeEach(func() {
			input = "Jameson Holdings\nDowntown Cafe\n456 Oak Ave"
		})

		It("prefers the keyword match", func() {
			Expect(fields.Merchant).To(Equal("Downtown Cafe"))
		})
	})

	When("the name is wrapped in print artifacts", func() {
		BeforeEach(func() {
			input = "###SUPER MART###\nthanks for visiting"
		})

		It("strips the artifacts and title-cases the words", func() {
			Expect(fields.Merchant).To(Equal("Super Mart"))
		})
	})

	When("the first lines are headers, dates, and prices", func() {
		BeforeEach(func() {
			input = "Invoice 2024\nReceipt\n12/01/2024\n$5.00\nPearl Bistro"
		})

		It("skips them and keeps the first real candidate", func() {
			Expect(fields.Merchant).To(Equal("Pearl Bistro"))
		})
	})
})
