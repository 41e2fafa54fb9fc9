package recognition

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// pngFixture returns a small valid PNG payload.
func pngFixture() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		img.Set(x, 8, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func jpegFixture() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

var _ = Describe("prepareImage", func() {
	It("passes PNG payloads through untouched", func() {
		data := pngFixture()
		out, err := prepareImage(Request{Data: data, ContentType: "image/png"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(data))
	})

	It("re-encodes JPEG payloads as PNG", func() {
		out, err := prepareImage(Request{Data: jpegFixture(), ContentType: "image/jpeg"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out[:4]).To(Equal(pngMagic))
	})

	It("assumes JPEG when the content type is missing", func() {
		out, err := prepareImage(Request{Data: jpegFixture()})
		Expect(err).NotTo(HaveOccurred())
		Expect(out[:4]).To(Equal(pngMagic))
	})

	It("rejects undecodable payloads", func() {
		_, err := prepareImage(Request{Data: []byte("not an image"), ContentType: "image/jpeg"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("preprocessForOCR", func() {
	It("returns a valid PNG", func() {
		out, err := preprocessForOCR(pngFixture())
		Expect(err).NotTo(HaveOccurred())
		Expect(out[:4]).To(Equal(pngMagic))

		_, err = png.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects undecodable input", func() {
		_, err := preprocessForOCR([]byte("junk"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("isHEIC", func() {
	It("detects the content type", func() {
		Expect(isHEIC(nil, "image/heic")).To(BeTrue())
		Expect(isHEIC(nil, "image/heif")).To(BeTrue())
	})

	It("detects the ftyp box brand", func() {
		header := append([]byte{0, 0, 0, 24}, []byte("ftypheic....")...)
		Expect(isHEIC(header, "application/octet-stream")).To(BeTrue())
	})

	It("rejects other payloads", func() {
		Expect(isHEIC(pngFixture(), "image/png")).To(BeFalse())
		Expect(isHEIC([]byte("tiny"), "image/jpeg")).To(BeFalse())
	})
})
