package recognition

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeBackend struct {
	engine Engine
	text   string
	err    error
	calls  int
}

func (f *fakeBackend) Engine() Engine { return f.engine }

func (f *fakeBackend) Recognize(ctx context.Context, req Request, creds Credentials) (string, error) {
	f.calls++
	return f.text, f.err
}

var _ = Describe("Orchestrator", func() {
	var (
		tesseract *fakeBackend
		vision    *fakeBackend
		textract  *fakeBackend
		gemini    *fakeBackend

		orchestrator *Orchestrator
		cfg          Config
		result       Result
	)

	BeforeEach(func() {
		tesseract = &fakeBackend{engine: EngineTesseract, text: "local text"}
		vision = &fakeBackend{engine: EngineGoogleVision, text: "vision text"}
		textract = &fakeBackend{engine: EngineAWSTextract, text: "textract text"}
		gemini = &fakeBackend{engine: EngineGemini, text: "gemini text"}
		cfg = Config{}
	})

	JustBeforeEach(func() {
		orchestrator = NewOrchestrator(tesseract, vision, textract, gemini)
		result = orchestrator.Recognize(context.Background(), Request{Data: []byte("img")}, cfg)
	})

	When("no preference is set", func() {
		It("uses the hosted engine first and stops there", func() {
			Expect(result.Engine).To(Equal(EngineGoogleVision))
			Expect(result.Text).To(Equal("vision text"))
			Expect(tesseract.calls).To(BeZero())
			Expect(textract.calls).To(BeZero())
		})

		It("never consults the opt-in engine", func() {
			Expect(gemini.calls).To(BeZero())
		})

		When("the first engine fails", func() {
			BeforeEach(func() {
				vision.err = ErrBackendCallFailed
			})

			It("falls through to the local engine", func() {
				Expect(result.Engine).To(Equal(EngineTesseract))
				Expect(result.Text).To(Equal("local text"))
				Expect(textract.calls).To(BeZero())
			})
		})

		When("the first engine finds no text", func() {
			BeforeEach(func() {
				vision.text = "   \n"
			})

			It("treats blank output as a failure", func() {
				Expect(result.Engine).To(Equal(EngineTesseract))
			})
		})

		When("every engine in the chain fails", func() {
			BeforeEach(func() {
				vision.err = ErrBackendUnavailable
				tesseract.err = ErrBackendUnavailable
				textract.err = ErrBackendCallFailed
			})

			It("yields an empty result instead of an error", func() {
				Expect(result).To(Equal(Result{}))
			})

			It("still never consults the opt-in engine", func() {
				Expect(gemini.calls).To(BeZero())
			})
		})
	})

	When("a hosted engine is preferred", func() {
		BeforeEach(func() {
			cfg.Preferred = EngineAWSTextract
			textract.err = ErrBackendCallFailed
		})

		It("falls back to the local engine only", func() {
			Expect(result.Engine).To(Equal(EngineTesseract))
			Expect(vision.calls).To(BeZero())
			Expect(gemini.calls).To(BeZero())
		})
	})

	When("the opt-in engine is preferred", func() {
		BeforeEach(func() {
			cfg.Preferred = EngineGemini
		})

		It("uses it", func() {
			Expect(result.Engine).To(Equal(EngineGemini))
			Expect(result.Text).To(Equal("gemini text"))
		})
	})

	When("the local engine is preferred and fails", func() {
		BeforeEach(func() {
			cfg.Preferred = EngineTesseract
			tesseract.err = ErrBackendUnavailable
		})

		It("attempts nothing else", func() {
			Expect(result).To(Equal(Result{}))
			Expect(vision.calls).To(BeZero())
			Expect(textract.calls).To(BeZero())
			Expect(gemini.calls).To(BeZero())
		})
	})

	When("the preference names an unknown engine", func() {
		BeforeEach(func() {
			cfg.Preferred = Engine("clippy")
		})

		It("degrades to the local engine", func() {
			Expect(result.Engine).To(Equal(EngineTesseract))
			Expect(vision.calls).To(BeZero())
		})
	})

	It("trims surrounding whitespace from the winning text", func() {
		vision.text = "  trimmed\n"
		fresh := NewOrchestrator(vision)
		r := fresh.Recognize(context.Background(), Request{}, Config{})
		Expect(r.Text).To(Equal("trimmed"))
	})

	It("skips engines that are not registered", func() {
		sparse := NewOrchestrator(tesseract)
		r := sparse.Recognize(context.Background(), Request{}, Config{})
		Expect(r.Engine).To(Equal(EngineTesseract))
	})
})
