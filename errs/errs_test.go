package errs_test

import (
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ZacIsrael/dev-camper-api/errs"
)

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf(`E11000 duplicate key error collection: devcamper.x index: %s dup key: { : "a" }`, index),
	}}}
}

var _ = Describe("Status", func() {
	DescribeTable("maps kinds to HTTP codes",
		func(err error, status int) {
			Expect(errs.Status(err)).To(Equal(status))
		},
		Entry("nil", nil, http.StatusOK),
		Entry("validation", errs.E(errs.ErrValidation, "bad"), http.StatusBadRequest),
		Entry("not found", errs.E(errs.ErrNotFound, "gone"), http.StatusNotFound),
		Entry("unauthenticated", errs.ErrUnauthenticated, http.StatusUnauthorized),
		Entry("forbidden", errs.E(errs.ErrForbidden, "no"), http.StatusForbidden),
		Entry("conflict", errs.E(errs.ErrConflict, "dup"), http.StatusConflict),
		Entry("mail", errs.Wrap(errs.ErrMail, errors.New("smtp"), "Email could not be sent"), http.StatusInternalServerError),
		Entry("wrapped with fmt", fmt.Errorf("ctx: %w", errs.E(errs.ErrNotFound, "gone")), http.StatusNotFound),
		Entry("unknown", errors.New("boom"), http.StatusInternalServerError),
	)
})

var _ = Describe("Message", func() {
	It("returns the client message", func() {
		Expect(errs.Message(errs.Wrap(errs.ErrMail, errors.New("smtp down"), "Email could not be sent"))).To(Equal("Email could not be sent"))
	})

	It("hides unexpected errors", func() {
		Expect(errs.Message(errors.New("connection reset"))).To(Equal("Server Error"))
	})

	It("keeps the cause reachable", func() {
		cause := errors.New("smtp down")
		err := errs.Wrap(errs.ErrMail, cause, "Email could not be sent")
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(errors.Is(err, errs.ErrMail)).To(BeTrue())
	})
})

var _ = Describe("FromStore", func() {
	It("passes nil through", func() {
		Expect(errs.FromStore(nil)).To(BeNil())
	})

	It("reports missing documents as not found", func() {
		err := errs.FromStore(mongo.ErrNoDocuments)
		Expect(errs.Status(err)).To(Equal(http.StatusNotFound))
		Expect(errs.Message(err)).To(Equal("Resource not found"))
	})

	It("names the fields of a violated unique index", func() {
		err := errs.FromStore(duplicateKey("email_1"))
		Expect(errors.Is(err, errs.ErrConflict)).To(BeTrue())
		Expect(errs.Message(err)).To(Equal("Duplicate field value entered for email"))
	})

	It("handles compound indexes", func() {
		Expect(errs.DuplicateFields(duplicateKey("bootcamp_1_user_1"))).To(Equal([]string{"bootcamp", "user"}))
	})

	It("wraps anything else as a database error", func() {
		err := errs.FromStore(errors.New("socket closed"))
		Expect(errors.Is(err, errs.ErrDatabase)).To(BeTrue())
		Expect(errs.Message(err)).To(Equal("Server Error"))
	})

	It("leaves already classified errors alone", func() {
		in := errs.E(errs.ErrForbidden, "no")
		Expect(errs.FromStore(in)).To(BeIdenticalTo(in))
	})
})
