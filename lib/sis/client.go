package sis

import (
	"time"

	"sisquery/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// Production SIS sub-API endpoints. Each sub-API is keyed by its own
// app_id/app_key pair, see Credentials.
const (
	DefaultTermsURL         = "https://apis.berkeley.edu/sis/v1/terms"
	DefaultClassesURL       = "https://apis.berkeley.edu/sis/v1/classes"
	DefaultClassSectionsURL = "https://apis.berkeley.edu/sis/v1/classes/sections"
	DefaultEnrollmentsURL   = "https://apis.berkeley.edu/sis/v2/enrollments"
	DefaultStudentsURL      = "https://apis.berkeley.edu/sis/v2/students"
	DefaultCoursesURL       = "https://gateway.api.berkeley.edu/sis/v4/courses"
)

// Endpoints holds the base URL of every sub-API. Zero fields fall back
// to the production endpoints.
type Endpoints struct {
	Terms         string
	Classes       string
	ClassSections string
	Enrollments   string
	Students      string
	Courses       string
}

func (e Endpoints) withDefaults() Endpoints {
	def := func(url, fallback string) string {
		if url == "" {
			return fallback
		}
		return url
	}
	return Endpoints{
		Terms:         def(e.Terms, DefaultTermsURL),
		Classes:       def(e.Classes, DefaultClassesURL),
		ClassSections: def(e.ClassSections, DefaultClassSectionsURL),
		Enrollments:   def(e.Enrollments, DefaultEnrollmentsURL),
		Students:      def(e.Students, DefaultStudentsURL),
		Courses:       def(e.Courses, DefaultCoursesURL),
	}
}

type Client struct {
	Http *resty.Client
	URLs Endpoints
}

type ClientOptions struct {
	// defaults to 30s
	Timeout time.Duration
	// zero fields default to the production endpoints
	Endpoints Endpoints
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	telemetry.InstrumentResty(client, "sis/http")

	return &Client{
		Http: client,
		URLs: opts.Endpoints.withDefaults(),
	}
}
