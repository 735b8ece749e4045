package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/ZacIsrael/dev-camper-api/config"
)

var _ = Describe("ParseDuration", func() {
	def := time.Minute

	DescribeTable("parses",
		func(in string, want time.Duration) {
			Expect(config.ParseDuration(in, def)).To(Equal(want))
		},
		Entry("days", "30d", 30*24*time.Hour),
		Entry("go duration", "10m", 10*time.Minute),
		Entry("empty", "", def),
		Entry("garbage", "soon", def),
		Entry("zero days", "0d", def),
		Entry("negative", "-5m", def),
	)
})

var _ = Describe("Load", func() {
	var saved map[string]string
	keys := []string{"ENV", "PORT", "JWT_SECRET", "JWT_EXPIRE", "JWT_COOKIE_EXPIRE", "ALLOWED_ORIGINS", "STORAGE_DRIVER"}

	BeforeEach(func() {
		saved = map[string]string{}
		for _, k := range keys {
			saved[k] = os.Getenv(k)
			os.Unsetenv(k)
		}
	})

	AfterEach(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})

	It("falls back to defaults", func() {
		cfg := config.Load()
		Expect(cfg.Port).To(Equal("5000"))
		Expect(cfg.JWTExpire).To(Equal(30 * 24 * time.Hour))
		Expect(cfg.JWTCookieExpire).To(Equal(30 * 24 * time.Hour))
		Expect(cfg.StorageDriver).To(Equal("local"))
		Expect(cfg.IsProduction()).To(BeFalse())
	})

	It("reads the environment", func() {
		os.Setenv("ENV", "Production")
		os.Setenv("JWT_COOKIE_EXPIRE", "7")
		os.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
		os.Setenv("STORAGE_DRIVER", "R2")

		cfg := config.Load()
		Expect(cfg.IsProduction()).To(BeTrue())
		Expect(cfg.JWTCookieExpire).To(Equal(7 * 24 * time.Hour))
		Expect(cfg.AllowedOrigins).To(Equal([]string{"http://a.test", "http://b.test"}))
		Expect(cfg.StorageDriver).To(Equal("r2"))
	})

	It("refuses a production environment without a secret", func() {
		os.Setenv("ENV", "production")
		cfg := config.Load()
		Expect(cfg.JWTSecret).To(Equal(config.DefaultJWTSecret))
		Expect(cfg.Validate()).NotTo(Succeed())
	})
})

var _ = Describe("Validate", func() {
	DescribeTable("JWT secret",
		func(env, secret string, ok bool) {
			cfg := &config.Config{Environment: env, JWTSecret: secret}
			if ok {
				Expect(cfg.Validate()).To(Succeed())
			} else {
				Expect(cfg.Validate()).To(MatchError(ContainSubstring("JWT_SECRET")))
			}
		},
		Entry("default outside production", "development", config.DefaultJWTSecret, true),
		Entry("default in production", "production", config.DefaultJWTSecret, false),
		Entry("blank in production", "production", "  ", false),
		Entry("set in production", "production", "s3cr3t-from-vault", true),
	)
})
