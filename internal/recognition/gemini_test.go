package recognition

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gemini", func() {
	var (
		backend     *Gemini
		gotKey      string
		gotModel    string
		gotPNG      []byte
		transcript  string
		generateErr error
		creds       Credentials
		req         Request
	)

	BeforeEach(func() {
		gotKey, gotModel, gotPNG = "", "", nil
		transcript = "Corner Market\nTotal $5.00"
		generateErr = nil
		creds = Credentials{GeminiAPIKey: "test-key"}
		req = Request{Data: pngFixture(), ContentType: "image/png"}

		backend = NewGemini("gemini-2.5-flash")
		backend.generate = func(ctx context.Context, apiKey, model string, png []byte) (string, error) {
			gotKey, gotModel, gotPNG = apiKey, model, png
			return transcript, generateErr
		}
	})

	It("identifies itself", func() {
		Expect(backend.Engine()).To(Equal(EngineGemini))
	})

	It("transcribes with the configured model", func() {
		text, err := backend.Recognize(context.Background(), req, creds)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal(transcript))
		Expect(gotKey).To(Equal("test-key"))
		Expect(gotModel).To(Equal("gemini-2.5-flash"))
		Expect(gotPNG).NotTo(BeEmpty())
	})

	It("defaults the model", func() {
		g := NewGemini("")
		g.generate = backend.generate
		_, err := g.Recognize(context.Background(), req, creds)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotModel).To(Equal("gemini-2.5-flash"))
	})

	When("no API key is available", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("GEMINI_API_KEY", "")
			creds = Credentials{}
		})

		It("reports unavailability without calling out", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrBackendUnavailable))
			Expect(gotPNG).To(BeNil())
		})
	})

	When("the environment supplies the key", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("GEMINI_API_KEY", "env-key")
			creds = Credentials{}
		})

		It("is used as a fallback", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotKey).To(Equal("env-key"))
		})
	})

	When("the API call fails", func() {
		BeforeEach(func() {
			generateErr = errors.New("quota exceeded")
		})

		It("reports a call failure", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrBackendCallFailed))
		})
	})

	When("the transcript is blank", func() {
		BeforeEach(func() {
			transcript = "  \n "
		})

		It("reports no text recognized", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrNoTextRecognized))
		})
	})
})
