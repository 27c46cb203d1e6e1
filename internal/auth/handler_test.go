package auth_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/auth"
)

var _ = Describe("AuthMiddleware", func() {
	var (
		handler *auth.Handler
		svc     *auth.Service
	)

	BeforeEach(func() {
		users := newMockUserDirectory()
		tokenGen := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
		svc = auth.NewService(users, tokenGen, assertionSecret)
		handler = auth.NewHandler(svc)
	})

	login := func() auth.AuthTokens {
		assertion := signAssertion(assertionSecret, "user-123", "wang@mail.com", "小王", time.Minute)
		tokens, err := svc.Login(auth.LoginDTO{Assertion: assertion})
		Expect(err).ToNot(HaveOccurred())
		return tokens
	}

	It("stores the principal for downstream handlers", func() {
		tokens := login()

		var principal *internal.Principal
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			Expect(ok).To(BeTrue())
			principal = p
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()

		handler.AuthMiddleware(next).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(principal).ToNot(BeNil())
		Expect(principal.ID).To(Equal("user-123"))
		Expect(principal.Email).To(Equal("wang@mail.com"))
		Expect(principal.Name).To(Equal("小王"))
	})

	It("rejects requests without a bearer token", func() {
		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		})

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		w := httptest.NewRecorder()

		handler.AuthMiddleware(next).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
	})

	It("rejects garbage tokens", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Fail("next handler must not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		handler.AuthMiddleware(next).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
