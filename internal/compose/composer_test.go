// internal/compose/composer_test.go
package compose

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nthenge/sokoreach/internal/model"
)

func newTestComposer() *Composer {
	return NewComposer(rand.New(rand.NewSource(1)))
}

func TestMessageTypeFollowsWebsitePresence(t *testing.T) {
	c := newTestComposer()

	withSite := model.Recipient{Name: "Tech Solutions Inc", Website: "https://techsolutions.example.com"}
	if got := c.MessageType(withSite); got != model.MessageEnhancement {
		t.Errorf("expected enhancement, got %s", got)
	}

	noSite := model.Recipient{Name: "Coffee Paradise"}
	if got := c.MessageType(noSite); got != model.MessageCreation {
		t.Errorf("expected creation, got %s", got)
	}

	blankSite := model.Recipient{Name: "Book Haven", Website: "   "}
	if got := c.MessageType(blankSite); got != model.MessageCreation {
		t.Errorf("whitespace-only website should mean creation, got %s", got)
	}
}

func TestComposeFillsPlaceholders(t *testing.T) {
	c := newTestComposer()
	r := model.Recipient{Name: "Coffee Paradise", Phone: "+12025551001"}

	for i := 0; i < 20; i++ {
		msg := c.Compose(r)
		if !strings.Contains(msg, "Coffee Paradise") {
			t.Fatalf("message does not mention the business: %q", msg)
		}
		if strings.Contains(msg, "{business_name}") {
			t.Fatalf("placeholder left unfilled: %q", msg)
		}
	}
}

func TestComposeFillsWebsiteForEnhancement(t *testing.T) {
	c := newTestComposer()
	r := model.Recipient{Name: "Tech Solutions Inc", Website: "https://techsolutions.example.com"}

	for i := 0; i < 20; i++ {
		msg := c.Compose(r)
		if strings.Contains(msg, "{website}") {
			t.Fatalf("website placeholder left unfilled: %q", msg)
		}
	}
}

func TestComposeUsesUnknownForMissingName(t *testing.T) {
	c := newTestComposer()
	msg := c.Compose(model.Recipient{Phone: "+12025551001"})
	if !strings.Contains(msg, "<unknown>") {
		t.Errorf("missing name should render as <unknown>: %q", msg)
	}
}

func TestPreviewTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Preview(long)
	if n := len([]rune(got)); n != previewLength+3 {
		t.Errorf("expected %d runes, got %d", previewLength+3, n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}

	short := "short message"
	if Preview(short) != short {
		t.Errorf("short messages must pass through untouched")
	}
}

func TestWhatsAppURL(t *testing.T) {
	got := WhatsAppURL("+1 202-555-1001", "Hi there & welcome")
	want := "https://web.whatsapp.com/send?phone=12025551001&text=Hi%20there%20%26%20welcome"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
