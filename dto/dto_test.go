package dto_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

func validBootcamp() dto.CreateBootcampDTO {
	return dto.CreateBootcampDTO{
		Name:        "Devworks Bootcamp",
		Description: "Devworks is a full stack JavaScript Bootcamp",
		Website:     "https://devworks.com",
		Phone:       "(111) 111-1111",
		Email:       "Enroll@Devworks.com ",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development", " UI/UX "},
		Housing:     true,
	}
}

func expectValidation(err error, msg string) {
	ExpectWithOffset(1, err).NotTo(BeNil())
	ExpectWithOffset(1, errors.Is(err, errs.ErrValidation)).To(BeTrue())
	ExpectWithOffset(1, errs.Message(err)).To(Equal(msg))
}

func ptr[T any](v T) *T { return &v }

var _ = Describe("CreateBootcampDTO", func() {
	It("normalizes into a model", func() {
		b, err := validBootcamp().Model()
		Expect(err).To(BeNil())
		Expect(b.Email).To(Equal("enroll@devworks.com"))
		Expect(b.Careers).To(Equal([]string{"Web Development", "UI/UX"}))
		Expect(b.Photo).To(Equal(models.DefaultPhoto))
		Expect(b.Housing).To(BeTrue())
		Expect(b.AverageCost).To(BeNil())
	})

	It("accepts a 50 character name", func() {
		d := validBootcamp()
		d.Name = strings.Repeat("a", 50)
		_, err := d.Model()
		Expect(err).To(BeNil())
	})

	It("rejects a 51 character name", func() {
		d := validBootcamp()
		d.Name = strings.Repeat("a", 51)
		_, err := d.Model()
		expectValidation(err, "name can not be more than 50 characters")
	})

	It("rejects unknown careers", func() {
		d := validBootcamp()
		d.Careers = []string{"Web Development", "Underwater Basket Weaving"}
		_, err := d.Model()
		expectValidation(err, `careers[1]: "Underwater Basket Weaving" is not an allowed value`)
	})

	It("requires at least one career", func() {
		d := validBootcamp()
		d.Careers = nil
		_, err := d.Model()
		expectValidation(err, "careers is required")
	})

	It("requires an address", func() {
		d := validBootcamp()
		d.Address = "   "
		_, err := d.Model()
		expectValidation(err, "address is required")
	})

	It("checks the website scheme", func() {
		d := validBootcamp()
		d.Website = "devworks.com"
		_, err := d.Model()
		expectValidation(err, "website must be a valid URL with HTTP or HTTPS")
	})

	It("checks the email", func() {
		d := validBootcamp()
		d.Email = "not-an-email"
		_, err := d.Model()
		expectValidation(err, "email must be a valid email")
	})
})

var _ = Describe("UpdateBootcampDTO", func() {
	var stored *models.Bootcamp

	BeforeEach(func() {
		var err error
		stored, err = validBootcamp().Model()
		Expect(err).To(BeNil())
		stored.ID = bson.NewObjectID()
	})

	It("returns only the changed fields", func() {
		set, err := dto.UpdateBootcampDTO{Name: ptr(" New Name "), JobGuarantee: ptr(true)}.Apply(stored)
		Expect(err).To(BeNil())
		Expect(set).To(Equal(bson.M{"name": "New Name", "jobGuarantee": true}))
		Expect(stored.Name).To(Equal("New Name"))
	})

	It("re-runs the shared rules on the merged record", func() {
		_, err := dto.UpdateBootcampDTO{Description: ptr(strings.Repeat("d", 501))}.Apply(stored)
		expectValidation(err, "description can not be more than 500 characters")
	})

	It("rejects an empty patch", func() {
		_, err := dto.UpdateBootcampDTO{}.Apply(stored)
		expectValidation(err, "no updates provided")
	})
})

var _ = Describe("Course DTOs", func() {
	bootcamp, user := bson.NewObjectID(), bson.NewObjectID()

	valid := func() dto.CreateCourseDTO {
		return dto.CreateCourseDTO{
			Title:        "Front End Web Development",
			Description:  "HTML, CSS and JavaScript",
			Weeks:        8,
			Tuition:      8000,
			MinimumSkill: "Beginner",
		}
	}

	It("links the course to its bootcamp and owner", func() {
		c, err := valid().Model(bootcamp, user)
		Expect(err).To(BeNil())
		Expect(c.Bootcamp).To(Equal(bootcamp))
		Expect(c.User).To(Equal(user))
		Expect(c.MinimumSkill).To(Equal("beginner"))
	})

	It("rejects unknown skill levels", func() {
		d := valid()
		d.MinimumSkill = "expert"
		_, err := d.Model(bootcamp, user)
		expectValidation(err, `minimumSkill: "expert" is not an allowed value`)
	})

	It("requires weeks", func() {
		d := valid()
		d.Weeks = 0
		_, err := d.Model(bootcamp, user)
		expectValidation(err, "weeks is required")
	})

	It("rejects negative tuition on update", func() {
		c, _ := valid().Model(bootcamp, user)
		_, err := dto.UpdateCourseDTO{Tuition: ptr(-1.0)}.Apply(c)
		expectValidation(err, "tuition must be at least 0")
	})
})

var _ = Describe("Review DTOs", func() {
	bootcamp, user := bson.NewObjectID(), bson.NewObjectID()

	It("bounds the rating", func() {
		_, err := dto.CreateReviewDTO{Title: "Great", Text: "Learned a lot", Rating: 11}.Model(bootcamp, user)
		expectValidation(err, "rating must be at most 10")

		r, err := dto.CreateReviewDTO{Title: "Great", Text: "Learned a lot", Rating: 10}.Model(bootcamp, user)
		Expect(err).To(BeNil())
		_, err = dto.UpdateReviewDTO{Rating: ptr(0)}.Apply(r)
		expectValidation(err, "rating is required")
	})
})

var _ = Describe("User DTOs", func() {
	It("defaults the role to user", func() {
		u, err := dto.CreateUserDTO{Name: "John", Email: "JOHN@gmail.com", Password: "123456"}.Model()
		Expect(err).To(BeNil())
		Expect(u.Role).To(Equal(models.RoleUser))
		Expect(u.Email).To(Equal("john@gmail.com"))
	})

	It("rejects short passwords", func() {
		_, err := dto.CreateUserDTO{Name: "John", Email: "john@gmail.com", Password: "123"}.Model()
		expectValidation(err, "password must be at least 6 characters")
	})

	It("lets admins create admins but not self-registration", func() {
		_, err := dto.CreateUserDTO{Name: "Root", Email: "root@gmail.com", Role: "admin", Password: "123456"}.Model()
		Expect(err).To(BeNil())

		_, err = dto.RegisterDTO{Name: "Root", Email: "root@gmail.com", Role: "admin", Password: "123456"}.Model()
		expectValidation(err, `role: "admin" is not an allowed value`)
	})

	It("rejects unknown roles", func() {
		_, err := dto.RegisterDTO{Name: "X", Email: "x@gmail.com", Role: "owner", Password: "123456"}.Model()
		expectValidation(err, `role: "owner" is not an allowed value`)
	})

	It("updates a record loaded without its password", func() {
		u := &models.User{ID: bson.NewObjectID(), Name: "John", Email: "john@gmail.com", Role: models.RoleUser}
		set, err := dto.UpdateDetailsDTO{Email: ptr("New@Gmail.com")}.Apply(u)
		Expect(err).To(BeNil())
		Expect(set).To(Equal(bson.M{"email": "new@gmail.com"}))
	})

	It("validates a new password on update", func() {
		u := &models.User{ID: bson.NewObjectID(), Name: "John", Email: "john@gmail.com", Role: models.RoleUser}
		_, err := dto.UpdateUserDTO{Password: ptr("123")}.Apply(u)
		expectValidation(err, "password must be at least 6 characters")
	})
})

var _ = Describe("Auth DTOs", func() {
	It("needs both login fields", func() {
		d := dto.LoginDTO{Email: " "}
		expectValidation(d.Validate(), "Please provide an email and password")
	})

	It("lowercases the login email", func() {
		d := dto.LoginDTO{Email: " John@Gmail.com", Password: "123456"}
		Expect(d.Validate()).To(Succeed())
		Expect(d.Email).To(Equal("john@gmail.com"))
	})

	It("validates the reset password", func() {
		d := dto.ResetPasswordDTO{Password: "12"}
		expectValidation(d.Validate(), "password must be at least 6 characters")
	})

	It("validates the new password", func() {
		d := dto.UpdatePasswordDTO{CurrentPassword: "123456", NewPassword: "1"}
		expectValidation(d.Validate(), "newPassword must be at least 6 characters")
	})
})
