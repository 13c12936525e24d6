package tracker_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/attribution"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/delivery"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/page"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/tracker"
)

const desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestPaidClickDeliveredEndToEnd(t *testing.T) {
	received := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		received <- r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	beacon := delivery.NewBeacon(srv.URL, logger.NewNop())
	channel := delivery.NewChannelWithTransport(beacon, "test-nonce", logger.NewNop())
	tr := tracker.New(attribution.NewMemoryStore(), channel, logger.NewNop())

	p := &page.Page{
		Location:  mustParse(t, "https://example.com/contact?utm_source=google&utm_medium=cpc&utm_campaign=spring&gclid=abc123"),
		Referrer:  "",
		UserAgent: desktopUA,
		Elements: []*page.Element{
			page.NewElement("a", "href", "tel:5551234567"),
		},
	}

	session := tr.OnPageReady(p)
	if len(session.Bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(session.Bindings))
	}

	session.Bindings[0].Click()
	beacon.Close()

	select {
	case got := <-received:
		checks := map[string]string{
			domain.FieldAction:        domain.ActionRecordEvent,
			domain.FieldNonce:         "test-nonce",
			domain.FieldEventType:     "phone_click",
			domain.FieldEventLabel:    "5551234567",
			domain.FieldSource:        "google",
			domain.FieldMedium:        "cpc",
			domain.FieldCampaign:      "spring",
			domain.FieldAdID:          "abc123",
			domain.FieldTrafficType:   "Paid",
			domain.FieldDeviceType:    "Desktop",
			domain.FieldSubmittingURL: "/contact/",
			domain.FieldEntryURL:      "/contact/",
			domain.FieldPageLocation:  "https://example.com/contact?utm_source=google&utm_medium=cpc&utm_campaign=spring&gclid=abc123",
		}
		for field, want := range checks {
			if got.Get(field) != want {
				t.Errorf("field %s: expected %q, got %q", field, want, got.Get(field))
			}
		}
	default:
		t.Fatal("expected payload to be delivered before beacon close returned")
	}
}

func TestAttributionSticksAcrossViews(t *testing.T) {
	tr := tracker.New(
		attribution.NewMemoryStore(),
		delivery.NewChannelWithTransport(captureTransport{}, "n", logger.NewNop()),
		logger.NewNop(),
	)

	// First view arrives tagged from a paid campaign.
	first := tr.OnPageReady(&page.Page{
		Location:  mustParse(t, "https://example.com/?utm_source=google&utm_medium=cpc"),
		UserAgent: desktopUA,
	})
	if first.Resolution.TrafficType != domain.TrafficPaid {
		t.Fatalf("expected Paid first view, got %s", first.Resolution.TrafficType)
	}

	// Second view has no tags; the session keeps the first touch.
	second := tr.OnPageReady(&page.Page{
		Location:  mustParse(t, "https://example.com/contact"),
		UserAgent: desktopUA,
	})
	if second.Resolution.Source != "google" || second.Resolution.Medium != "cpc" {
		t.Errorf("expected sticky google/cpc, got %s/%s",
			second.Resolution.Source, second.Resolution.Medium)
	}
	if second.Resolution.TrafficType != domain.TrafficPaid {
		t.Errorf("expected sticky medium to keep traffic Paid, got %s", second.Resolution.TrafficType)
	}
	if second.Resolution.EntryURL != "/home/" {
		t.Errorf("expected entry path from first view, got %q", second.Resolution.EntryURL)
	}
	if second.Resolution.SubmittingURL != "/contact/" {
		t.Errorf("expected submitting URL from second view, got %q", second.Resolution.SubmittingURL)
	}
}

func TestSocialReferrerClassification(t *testing.T) {
	tr := tracker.New(
		attribution.NewMemoryStore(),
		delivery.NewChannelWithTransport(captureTransport{}, "n", logger.NewNop()),
		logger.NewNop(),
	)

	session := tr.OnPageReady(&page.Page{
		Location:  mustParse(t, "https://example.com/"),
		Referrer:  "https://www.facebook.com/some-page",
		UserAgent: "Mozilla/5.0 (Linux; Android 14) Mobile Safari",
	})

	res := session.Resolution
	if res.TrafficType != domain.TrafficSocial {
		t.Errorf("expected Social traffic, got %s", res.TrafficType)
	}
	if res.Source != "facebook" || res.Medium != "social" {
		t.Errorf("expected facebook/social fallback, got %s/%s", res.Source, res.Medium)
	}
	if res.DeviceType != domain.DeviceMobile {
		t.Errorf("expected Mobile device, got %s", res.DeviceType)
	}
	if res.SubmittingURL != "/home/" {
		t.Errorf("expected root mapped to /home/, got %q", res.SubmittingURL)
	}
}

func TestPrefillPopulatesHiddenFields(t *testing.T) {
	tr := tracker.New(
		attribution.NewMemoryStore(),
		delivery.NewChannelWithTransport(captureTransport{}, "n", logger.NewNop()),
		logger.NewNop(),
	)

	campaignField := page.NewElement("input", "name", page.FormFieldName("utm_campaign"))
	termField := page.NewElement("input", "name", page.FormFieldName("utm_term"))

	tr.OnPageReady(&page.Page{
		Location:  mustParse(t, "https://example.com/contact?utm_campaign=spring&utm_source=google"),
		UserAgent: desktopUA,
		Elements:  []*page.Element{campaignField, termField},
	})

	if got, _ := campaignField.Attr("value"); got != "spring" {
		t.Errorf("expected campaign field prefilled with spring, got %q", got)
	}
	if _, ok := termField.Attr("value"); ok {
		t.Error("expected absent utm_term to leave the field untouched")
	}
}

type captureTransport struct{}

func (captureTransport) Send(url.Values) error { return nil }
