package recognition

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("GoogleVision", func() {
	var (
		server  *ghttp.Server
		backend *GoogleVision
		creds   Credentials
		req     Request
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		backend = NewGoogleVision()
		backend.endpoint = server.URL() + "/v1/images:annotate"
		creds = Credentials{GoogleVisionAPIKey: "test-key"}
		req = Request{Data: pngFixture(), ContentType: "image/png"}
	})

	AfterEach(func() {
		server.Close()
	})

	It("identifies itself", func() {
		Expect(backend.Engine()).To(Equal(EngineGoogleVision))
	})

	When("no API key is available", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("GOOGLE_VISION_API_KEY", "")
			creds = Credentials{}
		})

		It("reports unavailability without calling out", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrBackendUnavailable))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})

	When("the API finds text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/v1/images:annotate", "key=test-key"),
				ghttp.VerifyContentType("application/json"),
				ghttp.RespondWith(http.StatusOK, `{
					"responses": [{"textAnnotations": [{"description": "Corner Market\nTotal $5.00"}]}]
				}`),
			))
		})

		It("returns the full-page annotation", func() {
			text, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Corner Market\nTotal $5.00"))
		})
	})

	When("the API key comes from the environment", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("GOOGLE_VISION_API_KEY", "env-key")
			creds = Credentials{}
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/v1/images:annotate", "key=env-key"),
				ghttp.RespondWith(http.StatusOK, `{"responses": [{"textAnnotations": [{"description": "hello"}]}]}`),
			))
		})

		It("is used as a fallback", func() {
			text, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("hello"))
		})
	})

	When("the API rejects the call", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusForbidden, `{"error": "denied"}`))
		})

		It("reports a call failure", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrBackendCallFailed))
		})
	})

	When("the API finds no text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"responses": [{"textAnnotations": []}]}`))
		})

		It("reports no text recognized", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrNoTextRecognized))
		})
	})

	When("the response is not JSON", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, "<html>oops</html>"))
		})

		It("reports a call failure", func() {
			_, err := backend.Recognize(context.Background(), req, creds)
			Expect(err).To(MatchError(ErrBackendCallFailed))
		})
	})
})
