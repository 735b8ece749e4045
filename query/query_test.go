package query_test

import (
	"errors"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
)

func parse(raw string) (query.Query, error) {
	values, err := url.ParseQuery(raw)
	Expect(err).To(BeNil())
	return query.Parse(values, nil)
}

var _ = Describe("Parse", func() {
	Specify("defaults", func() {
		q, err := parse("")
		Expect(err).To(BeNil())
		Expect(q.Filter).To(BeEmpty())
		Expect(q.Page).To(Equal(1))
		Expect(q.Limit).To(Equal(25))
		Expect(q.Skip()).To(Equal(0))
		Expect(q.Sort).To(Equal(bson.D{{Key: "createdAt", Value: -1}}))
		Expect(q.Projection()).To(BeNil())
	})

	Specify("reserved names never reach the filter", func() {
		q, err := parse("select=name&sort=name&page=2&limit=10&housing=true")
		Expect(err).To(BeNil())
		Expect(q.Filter).To(Equal(bson.M{"housing": true}))
	})

	Specify("comparison markers become store operators", func() {
		q, err := parse("averageCost[gt]=5&averageRating[lte]=8.5")
		Expect(err).To(BeNil())
		Expect(q.Filter["averageCost"]).To(Equal(bson.M{"$gt": int64(5)}))
		Expect(q.Filter["averageRating"]).To(Equal(bson.M{"$lte": 8.5}))
	})

	Specify("in splits on commas", func() {
		q, err := parse("careers[in]=Business,UI/UX")
		Expect(err).To(BeNil())
		Expect(q.Filter["careers"]).To(Equal(bson.M{"$in": bson.A{"Business", "UI/UX"}}))
	})

	Specify("two operators on one field are combined", func() {
		q, err := parse("tuition[gte]=1000&tuition[lt]=5000")
		Expect(err).To(BeNil())
		Expect(q.Filter["tuition"]).To(Equal(bson.M{"$gte": int64(1000), "$lt": int64(5000)}))
	})

	Specify("dotted paths and object ids", func() {
		id := bson.NewObjectID()
		q, err := parse("location.state=MA&user=" + id.Hex())
		Expect(err).To(BeNil())
		Expect(q.Filter["location.state"]).To(Equal("MA"))
		Expect(q.Filter["user"]).To(Equal(id))
	})

	Specify("select accepts commas and spaces", func() {
		q, err := parse("select=name,description+housing")
		Expect(err).To(BeNil())
		Expect(q.Select).To(Equal([]string{"name", "description", "housing"}))
		Expect(q.Projection()).To(Equal(bson.M{"name": 1, "description": 1, "housing": 1}))
	})

	Specify("sort with descending fields", func() {
		q, err := parse("sort=name,-averageCost")
		Expect(err).To(BeNil())
		Expect(q.Sort).To(Equal(bson.D{{Key: "name", Value: 1}, {Key: "averageCost", Value: -1}}))
	})

	Specify("page and limit give the skip", func() {
		q, err := parse("page=3&limit=10")
		Expect(err).To(BeNil())
		Expect(q.Skip()).To(Equal(20))
	})

	Specify("last repeated value wins", func() {
		q, err := parse("housing=false&housing=true")
		Expect(err).To(BeNil())
		Expect(q.Filter["housing"]).To(Equal(true))
	})

	DescribeTable("rejected input",
		func(raw string) {
			_, err := parse(raw)
			Expect(errors.Is(err, errs.ErrValidation)).To(BeTrue())
		},
		Entry("store operator injection", "name[$ne]=x"),
		Entry("dollar key", "$where=1"),
		Entry("unknown operator", "averageCost[ne]=5"),
		Entry("negative page", "page=-1"),
		Entry("zero page", "page=0"),
		Entry("garbage limit", "limit=ten"),
		Entry("bad sort field", "sort=$natural"),
		Entry("page past the addressable range", "page=368934881474191035&limit=25"),
	)
})

var _ = Describe("Parse with model fields", func() {
	bootcamps := query.FieldsOf[models.Bootcamp]()

	typed := func(raw string) (query.Query, error) {
		values, err := url.ParseQuery(raw)
		Expect(err).To(BeNil())
		return query.Parse(values, bootcamps)
	}

	Specify("reads kinds from the bson tags", func() {
		Expect(bootcamps).To(HaveKeyWithValue("name", query.KindString))
		Expect(bootcamps).To(HaveKeyWithValue("careers", query.KindString))
		Expect(bootcamps).To(HaveKeyWithValue("averageCost", query.KindNumber))
		Expect(bootcamps).To(HaveKeyWithValue("housing", query.KindBool))
		Expect(bootcamps).To(HaveKeyWithValue("user", query.KindObjectID))
		Expect(bootcamps).To(HaveKeyWithValue("_id", query.KindObjectID))
		Expect(bootcamps).To(HaveKeyWithValue("createdAt", query.KindTime))
		Expect(bootcamps).To(HaveKeyWithValue("location.zipcode", query.KindString))
		Expect(bootcamps).To(HaveKeyWithValue("location.coordinates", query.KindNumber))
		Expect(bootcamps).NotTo(HaveKey("courses"))

		users := query.FieldsOf[models.User]()
		Expect(users).To(HaveKeyWithValue("password", query.KindHidden))
		Expect(users).To(HaveKeyWithValue("role", query.KindString))
	})

	Specify("numeric looking text stays a string on string fields", func() {
		q, err := typed("location.zipcode=02215&phone=5555555555&careers[in]=1,2")
		Expect(err).To(BeNil())
		Expect(q.Filter["location.zipcode"]).To(Equal("02215"))
		Expect(q.Filter["phone"]).To(Equal("5555555555"))
		Expect(q.Filter["careers"]).To(Equal(bson.M{"$in": bson.A{"1", "2"}}))
	})

	Specify("numbers, booleans, ids and dates are converted", func() {
		id := bson.NewObjectID()
		q, err := typed("averageCost[lte]=10000&averageRating[gt]=7.5&housing=true&user=" + id.Hex() + "&createdAt[gte]=2024-01-31")
		Expect(err).To(BeNil())
		Expect(q.Filter["averageCost"]).To(Equal(bson.M{"$lte": int64(10000)}))
		Expect(q.Filter["averageRating"]).To(Equal(bson.M{"$gt": 7.5}))
		Expect(q.Filter["housing"]).To(Equal(true))
		Expect(q.Filter["user"]).To(Equal(id))
		Expect(q.Filter["createdAt"]).To(Equal(bson.M{"$gte": time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}))
	})

	DescribeTable("rejects operands of the wrong kind",
		func(raw string) {
			_, err := typed(raw)
			Expect(errors.Is(err, errs.ErrValidation)).To(BeTrue())
		},
		Entry("text for a number", "averageCost[gt]=cheap"),
		Entry("NaN for a number", "averageCost[gt]=NaN"),
		Entry("text for a boolean", "housing=maybe"),
		Entry("text for an id", "user=someone"),
		Entry("text for a date", "createdAt[gte]=yesterday"),
	)

	Specify("hidden fields can not be filtered on", func() {
		_, err := query.Parse(map[string][]string{"password[gt]": {"a"}}, query.FieldsOf[models.User]())
		Expect(errors.Is(err, errs.ErrValidation)).To(BeTrue())
	})
})

var _ = Describe("Where", func() {
	Specify("does not mutate the original filter", func() {
		q, _ := parse("housing=true")
		scoped := q.Where("bootcamp", "b1")
		Expect(scoped.Filter).To(HaveKeyWithValue("bootcamp", "b1"))
		Expect(q.Filter).NotTo(HaveKey("bootcamp"))
	})
})

var _ = Describe("Project", func() {
	type rec struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Cost int    `json:"cost"`
	}

	Specify("keeps selected fields and the id", func() {
		out, err := query.Project([]rec{{ID: "1", Name: "a", Cost: 3}}, []string{"name"})
		Expect(err).To(BeNil())
		Expect(out).To(HaveLen(1))
		Expect(out[0]).To(Equal(map[string]any{"id": "1", "name": "a"}))
	})

	Specify("passes records through without a selection", func() {
		out, err := query.Project([]rec{{ID: "1"}}, nil)
		Expect(err).To(BeNil())
		Expect(out[0]).To(Equal(rec{ID: "1"}))
	})
})
