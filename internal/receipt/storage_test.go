package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		base    string
		storage *LocalStorage
	)

	BeforeEach(func() {
		base = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(base)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the storage root if missing", func() {
		nested := filepath.Join(base, "a", "b")
		_, err := NewLocalStorage(nested)
		Expect(err).NotTo(HaveOccurred())

		info, err := os.Stat(nested)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("round-trips a file", func() {
		path, err := storage.Save("scan.jpg", []byte("image bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("scan.jpg"))

		data, err := storage.Get("scan.jpg")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image bytes")))
	})

	It("deletes a file", func() {
		_, err := storage.Save("scan.jpg", []byte("image bytes"))
		Expect(err).NotTo(HaveOccurred())

		Expect(storage.Delete("scan.jpg")).To(Succeed())
		_, err = storage.Get("scan.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("fails to read a missing file", func() {
		_, err := storage.Get("missing.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("fails to delete a missing file", func() {
		Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
	})
})
