package services_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/dto"
	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

var _ = Describe("CourseService", func() {
	var (
		e         *env
		ctx       context.Context
		publisher *models.User
		b         *models.Bootcamp
	)

	addCourse := func(tuition float64) *models.Course {
		c, err := e.coursesS.Create(ctx, &models.Course{
			Title: "Course", Description: "x", Weeks: 4, Tuition: tuition, MinimumSkill: "beginner", Bootcamp: b.ID,
		}, publisher)
		ExpectWithOffset(1, err).To(BeNil())
		return c
	}

	averageCost := func() *float64 {
		got, err := e.bootcamps.FindByID(ctx, b.ID)
		ExpectWithOffset(1, err).To(BeNil())
		return got.AverageCost
	}

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
		publisher = e.user(models.RolePublisher)
		b = e.bootcamp(publisher, "Devworks Bootcamp")
	})

	It("keeps the bootcamp average cost current", func() {
		first := addCourse(8000)
		Expect(averageCost()).To(Equal(ptr(8000.0)))

		addCourse(12000)
		Expect(averageCost()).To(Equal(ptr(10000.0)))

		_, err := e.coursesS.Update(ctx, first.ID, dto.UpdateCourseDTO{Tuition: ptr(10000.0)}, publisher)
		Expect(err).To(BeNil())
		Expect(averageCost()).To(Equal(ptr(11000.0)))
	})

	It("stores the unrounded average", func() {
		addCourse(1000)
		addCourse(1000)
		addCourse(1001)
		Expect(*averageCost()).To(BeNumerically("~", 1000.3333, 0.001))
	})

	It("clears the average when the last course goes", func() {
		c := addCourse(8000)
		_, err := e.coursesS.Delete(ctx, c.ID, publisher)
		Expect(err).To(BeNil())
		Expect(averageCost()).To(BeNil())
	})

	It("requires an existing bootcamp", func() {
		_, err := e.coursesS.Create(ctx, &models.Course{
			Title: "Course", Description: "x", Weeks: 4, MinimumSkill: "beginner", Bootcamp: bson.NewObjectID(),
		}, publisher)
		expectKind(err, errs.ErrNotFound)
	})

	It("only lets the bootcamp owner add courses", func() {
		_, err := e.coursesS.Create(ctx, &models.Course{
			Title: "Course", Description: "x", Weeks: 4, MinimumSkill: "beginner", Bootcamp: b.ID,
		}, e.user(models.RolePublisher))
		expectKind(err, errs.ErrForbidden)
	})

	It("lists with the parent summary", func() {
		addCourse(8000)
		page, err := e.coursesS.List(ctx, query.New())
		Expect(err).To(BeNil())
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].BootcampInfo).To(Equal(&models.BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}))
	})

	It("lists the courses of one bootcamp", func() {
		addCourse(8000)
		admin := e.user(models.RoleAdmin)
		other := e.bootcamp(admin, "Other")
		_, err := e.coursesS.Create(ctx, &models.Course{
			Title: "Other course", Description: "x", Weeks: 4, MinimumSkill: "advanced", Bootcamp: other.ID,
		}, admin)
		Expect(err).To(BeNil())

		page, err := e.coursesS.ListForBootcamp(ctx, other.ID, query.New())
		Expect(err).To(BeNil())
		Expect(page.Total).To(BeEquivalentTo(1))
		Expect(page.Items[0].Title).To(Equal("Other course"))

		_, err = e.coursesS.ListForBootcamp(ctx, bson.NewObjectID(), query.New())
		expectKind(err, errs.ErrNotFound)
	})
})

var _ = Describe("ReviewService", func() {
	var (
		e        *env
		ctx      context.Context
		b        *models.Bootcamp
		reviewer *models.User
	)

	averageRating := func() *float64 {
		got, err := e.bootcamps.FindByID(ctx, b.ID)
		ExpectWithOffset(1, err).To(BeNil())
		return got.AverageRating
	}

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
		b = e.bootcamp(e.user(models.RolePublisher), "Devworks Bootcamp")
		reviewer = e.user(models.RoleUser)
	})

	It("keeps the bootcamp average rating current", func() {
		r, err := e.reviewsS.Create(ctx, &models.Review{Title: "Good", Text: "x", Rating: 8, Bootcamp: b.ID}, reviewer)
		Expect(err).To(BeNil())
		_, err = e.reviewsS.Create(ctx, &models.Review{Title: "Meh", Text: "x", Rating: 5, Bootcamp: b.ID}, e.user(models.RoleUser))
		Expect(err).To(BeNil())
		Expect(averageRating()).To(Equal(ptr(6.5)))

		_, err = e.reviewsS.Delete(ctx, r.ID, reviewer)
		Expect(err).To(BeNil())
		Expect(averageRating()).To(Equal(ptr(5.0)))
	})

	It("allows one review per user and bootcamp", func() {
		_, err := e.reviewsS.Create(ctx, &models.Review{Title: "Good", Text: "x", Rating: 8, Bootcamp: b.ID}, reviewer)
		Expect(err).To(BeNil())
		_, err = e.reviewsS.Create(ctx, &models.Review{Title: "Again", Text: "x", Rating: 9, Bootcamp: b.ID}, reviewer)
		expectKind(err, errs.ErrConflict)
	})

	It("only lets the author or an admin change a review", func() {
		r, err := e.reviewsS.Create(ctx, &models.Review{Title: "Good", Text: "x", Rating: 8, Bootcamp: b.ID}, reviewer)
		Expect(err).To(BeNil())

		_, err = e.reviewsS.Update(ctx, r.ID, dto.UpdateReviewDTO{Rating: ptr(1)}, e.user(models.RoleUser))
		expectKind(err, errs.ErrForbidden)

		updated, err := e.reviewsS.Update(ctx, r.ID, dto.UpdateReviewDTO{Rating: ptr(2)}, e.user(models.RoleAdmin))
		Expect(err).To(BeNil())
		Expect(updated.Rating).To(Equal(2))
		Expect(averageRating()).To(Equal(ptr(2.0)))
	})
})
