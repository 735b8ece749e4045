package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

var _ = Describe("MapQuest", func() {
	var (
		server *httptest.Server
		reply  string
		status int
		seen   *http.Request
		mq     *MapQuest
	)

	BeforeEach(func() {
		reply, status = "", http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		mq = NewMapQuest("secret")
		mq.baseURL = server.URL
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns a [lng, lat] point with a formatted address", func() {
		reply = `{"info":{"statuscode":0},"results":[{"locations":[{
			"latLng":{"lat":42.350846,"lng":-71.104028},
			"street":"233 Bay State Rd","adminArea5":"Boston","adminArea3":"MA",
			"adminArea1":"US","postalCode":"02215"}]}]}`

		loc, err := mq.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
		Expect(err).NotTo(HaveOccurred())
		Expect(loc.Type).To(Equal("Point"))
		Expect(loc.Coordinates).To(Equal([]float64{-71.104028, 42.350846}))
		Expect(loc.FormattedAddress).To(Equal("233 Bay State Rd, Boston, MA 02215, US"))
		Expect(loc.Zipcode).To(Equal("02215"))

		Expect(seen.URL.Query().Get("key")).To(Equal("secret"))
		Expect(seen.URL.Query().Get("location")).To(Equal("233 Bay State Rd Boston MA 02215"))
	})

	It("returns nil when nothing matches", func() {
		reply = `{"info":{"statuscode":0},"results":[{"locations":[]}]}`
		loc, err := mq.Geocode(context.Background(), "nowhere")
		Expect(err).NotTo(HaveOccurred())
		Expect(loc).To(BeNil())
	})

	It("reports provider failures", func() {
		reply = `{"info":{"statuscode":403,"messages":["bad key"]}}`
		_, err := mq.Geocode(context.Background(), "x")
		Expect(err).To(MatchError(errs.ErrGeocoder))

		status = http.StatusInternalServerError
		_, err = mq.Geocode(context.Background(), "x")
		Expect(err).To(MatchError(errs.ErrGeocoder))
	})
})

var _ = Describe("formatAddress", func() {
	It("skips empty parts", func() {
		Expect(formatAddress(&models.Location{City: "Boston", Zipcode: "02215"})).To(Equal("Boston, 02215"))
	})
})
