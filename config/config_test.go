package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/keepalive/config"
)

var envKeys = []string{
	"ENDPOINT_URL",
	"INTERVAL_MINUTES",
	"ACTIVE_WINDOW_START",
	"ACTIVE_WINDOW_END",
	"TIMEZONE",
	"LOGGING_LEVEL",
}

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: config.EnvDev},
		Target: config.TargetConfig{
			URL:           "https://api.example.com/health",
			Timeout:       "30s",
			HealthyStatus: config.HealthyAnyResponse,
		},
		Schedule: config.ScheduleConfig{
			IntervalMinutes: 5,
			ActiveWindow:    config.ActiveWindowConfig{Start: "08:00", End: "22:00"},
		},
		Logging: config.LoggingConfig{Level: config.LogLevelInfo},
	}
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Chdir(tempDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  address: ":9090"
  environment: "prod"

target:
  url: "https://api.example.com/health"
  timeout: "10s"
  healthy_status: "2xx"
  headers:
    X-Keepalive: "yes"

schedule:
  interval_minutes: 5
  run_on_start: false
  active_window:
    start: "08:00"
    end: "22:00"
  timezone: "+02:00"

logging:
  level: "debug"
`
				configPath := filepath.Join(tempDir, "config.yaml")
				Expect(os.WriteFile(configPath, []byte(configContent), 0644)).To(Succeed())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())
			})

			It("should parse the target", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Target.URL).To(Equal("https://api.example.com/health"))
				Expect(cfg.Target.HealthyStatus).To(Equal(config.HealthyStatus2xx))
				Expect(cfg.RequestTimeout()).To(Equal(10 * time.Second))
				Expect(cfg.Target.Headers).To(HaveKeyWithValue("x-keepalive", "yes"))
			})

			It("should parse the schedule", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Interval()).To(Equal(5 * time.Minute))
				Expect(cfg.Schedule.RunOnStart).To(BeFalse())

				w, err := cfg.ActiveWindow()
				Expect(err).NotTo(HaveOccurred())
				Expect(w.String()).To(Equal("08:00-22:00"))

				loc, err := cfg.Location()
				Expect(err).NotTo(HaveOccurred())
				_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
				Expect(offset).To(Equal(2 * 3600))
			})

			It("should let the environment override the file", func() {
				os.Setenv("INTERVAL_MINUTES", "7")
				os.Setenv("ACTIVE_WINDOW_START", "22:00")
				os.Setenv("ACTIVE_WINDOW_END", "06:00")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Schedule.IntervalMinutes).To(Equal(7))

				w, err := cfg.ActiveWindow()
				Expect(err).NotTo(HaveOccurred())
				Expect(w.Wraps()).To(BeTrue())
			})
		})

		Context("with environment variables only", func() {
			It("should use defaults when config file missing", func() {
				os.Setenv("ENDPOINT_URL", "https://api.example.com/health")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Schedule.IntervalMinutes).To(Equal(config.DefaultIntervalMinutes))
				Expect(cfg.Schedule.RunOnStart).To(BeTrue())
				Expect(cfg.Schedule.ActiveWindow.Start).To(Equal("00:00"))
				Expect(cfg.Schedule.ActiveWindow.End).To(Equal("23:59"))
				Expect(cfg.Target.HealthyStatus).To(Equal(config.HealthyAnyResponse))
				Expect(cfg.RequestTimeout()).To(Equal(30 * time.Second))
				Expect(cfg.Server.Address).To(BeEmpty())
			})

			It("should fail without an endpoint", func() {
				cfg, err := config.Load()
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())

				var cfgErr *config.ConfigurationError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
			})

			It("should reject a zero interval", func() {
				os.Setenv("ENDPOINT_URL", "https://api.example.com/health")
				os.Setenv("INTERVAL_MINUTES", "0")

				_, err := config.Load()
				Expect(err).To(MatchError(ContainSubstring("IntervalMinutes")))
			})

			It("should reject a malformed window", func() {
				os.Setenv("ENDPOINT_URL", "https://api.example.com/health")
				os.Setenv("ACTIVE_WINDOW_END", "25:00")

				_, err := config.Load()
				Expect(err).To(HaveOccurred())

				var cfgErr *config.ConfigurationError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
			})
		})
	})

	Describe("Validate", func() {
		It("should accept a valid configuration", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		It("should accept a wrapping window", func() {
			cfg := validConfig()
			cfg.Schedule.ActiveWindow = config.ActiveWindowConfig{Start: "22:00", End: "06:00"}
			Expect(cfg.Validate()).To(Succeed())
		})

		DescribeTable("should reject invalid values",
			func(mutate func(*config.Config)) {
				cfg := validConfig()
				mutate(cfg)

				err := cfg.Validate()
				Expect(err).To(HaveOccurred())

				var cfgErr *config.ConfigurationError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
			},
			Entry("negative interval", func(c *config.Config) { c.Schedule.IntervalMinutes = -5 }),
			Entry("zero interval", func(c *config.Config) { c.Schedule.IntervalMinutes = 0 }),
			Entry("window start hour", func(c *config.Config) { c.Schedule.ActiveWindow.Start = "24:00" }),
			Entry("window end minute", func(c *config.Config) { c.Schedule.ActiveWindow.End = "10:61" }),
			Entry("empty window end", func(c *config.Config) { c.Schedule.ActiveWindow.End = "" }),
			Entry("unknown timezone", func(c *config.Config) { c.Schedule.Timezone = "Nowhere/Land" }),
			Entry("relative url", func(c *config.Config) { c.Target.URL = "/health" }),
			Entry("ftp url", func(c *config.Config) { c.Target.URL = "ftp://example.com" }),
			Entry("bad timeout", func(c *config.Config) { c.Target.Timeout = "soon" }),
			Entry("zero timeout", func(c *config.Config) { c.Target.Timeout = "0s" }),
			Entry("healthy status", func(c *config.Config) { c.Target.HealthyStatus = "3xx" }),
			Entry("environment", func(c *config.Config) { c.Server.Environment = "qa" }),
			Entry("server address", func(c *config.Config) { c.Server.Address = "invalid:host:port" }),
			Entry("log level", func(c *config.Config) { c.Logging.Level = "trace" }),
		)
	})
})
