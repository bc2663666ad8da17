package eskit

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/browser"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// How the Kibana UI should be surfaced by Show.
const (
	// ShowPrint prints the UI URL.
	ShowPrint = "print"

	// ShowBrowser opens the UI in the default browser.
	ShowBrowser = "browser"
)

// statusPath is Kibana's health endpoint.
const statusPath = "/api/status"

// Kibana represents a dashboard deployment reachable over HTTP.
type Kibana struct {
	// Host Kibana is reached on.
	Host string `json:"host"`

	// Port Kibana listens on.
	Port int `json:"port"`

	// Protocol in use, http or https.
	Protocol string `json:"protocol"`

	// VerifyCerts controls TLS certificate verification.
	VerifyCerts bool `json:"verifyCerts"`

	httpClient *http.Client
}

//////
// Methods.
//////

// URL returns the Kibana base URL.
func (k *Kibana) URL() string {
	return fmt.Sprintf("%s://%s:%d", k.Protocol, k.Host, k.Port)
}

// String implements fmt.Stringer.
func (k *Kibana) String() string {
	return fmt.Sprintf("Kibana on %s", k.URL())
}

// Alive reports whether Kibana answers its status endpoint.
func (k *Kibana) Alive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.URL()+statusPath, nil)
	if err != nil {
		logger.Debuglnf("kibana alive: %s", err)

		return false
	}

	res, err := k.client().Do(req)
	if err != nil {
		logger.Debuglnf("kibana alive: %s", err)

		return false
	}

	defer res.Body.Close()

	return res.StatusCode >= 200 && res.StatusCode < 300
}

// Show surfaces the Kibana UI. With no arguments the URL is printed; pass
// ShowPrint and/or ShowBrowser to choose.
func (k *Kibana) Show(how ...string) error {
	if len(how) == 0 {
		how = []string{ShowPrint}
	}

	for _, h := range how {
		switch h {
		case ShowPrint:
			fmt.Println(k.String())
		case ShowBrowser:
			if err := browser.OpenURL(k.URL()); err != nil {
				return customerror.NewFailedToError(
					"open kibana in browser",
					customerror.WithError(err),
				)
			}
		default:
			return customerror.NewInvalidError(
				"show mode",
				customerror.WithField("how", h),
			)
		}
	}

	return nil
}

func (k *Kibana) client() *http.Client {
	if k.httpClient != nil {
		return k.httpClient
	}

	k.httpClient = &http.Client{Timeout: 5 * time.Second}

	if !k.VerifyCerts {
		k.httpClient.Transport = &http.Transport{
			//nolint:gosec
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return k.httpClient
}

//////
// Factory.
//////

// NewKibana creates a Kibana handle.
func NewKibana(host string, port int, protocol string, verifyCerts bool) *Kibana {
	if host == "" {
		host = "localhost"
	}

	if port == 0 {
		port = 5601
	}

	if protocol == "" {
		protocol = "http"
	}

	return &Kibana{
		Host:        host,
		Port:        port,
		Protocol:    protocol,
		VerifyCerts: verifyCerts,
	}
}
