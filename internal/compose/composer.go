// internal/compose/composer.go
package compose

import (
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/nthenge/sokoreach/internal/ingest"
	"github.com/nthenge/sokoreach/internal/model"
)

const previewLength = 80

// Composer picks a template matching the recipient's situation and
// fills in their details. Template choice is random so repeated sends
// do not all read the same; inject a seeded source for reproducibility.
type Composer struct {
	rng *rand.Rand
}

func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// MessageType returns the pitch appropriate for the recipient:
// enhancement when they already run a website, creation otherwise.
func (c *Composer) MessageType(r model.Recipient) model.MessageType {
	if r.HasWebsite() {
		return model.MessageEnhancement
	}
	return model.MessageCreation
}

// Compose renders a personalized message for the recipient.
func (c *Composer) Compose(r model.Recipient) string {
	var template string
	if c.MessageType(r) == model.MessageEnhancement {
		template = EnhancementTemplates[c.rng.Intn(len(EnhancementTemplates))]
	} else {
		template = CreationTemplates[c.rng.Intn(len(CreationTemplates))]
	}
	return c.personalize(template, r)
}

func (c *Composer) personalize(template string, r model.Recipient) string {
	message := template
	message = replace(message, "{business_name}", r.Name)
	message = replace(message, "{name}", r.Name)
	if r.Description != "" {
		message = strings.ReplaceAll(message, "{description}", r.Description)
	}
	if r.HasWebsite() {
		message = strings.ReplaceAll(message, "{website}", r.Website)
		if domain := ingest.ExtractDomain(r.Website); domain != "" {
			message = strings.ReplaceAll(message, "{domain}", domain)
		}
	}
	if r.MapsLink != "" {
		message = strings.ReplaceAll(message, "{maps_link}", r.MapsLink)
		message = strings.ReplaceAll(message, "{google_maps}", r.MapsLink)
	}
	return message
}

func replace(template, placeholder, value string) string {
	if value == "" {
		value = "<unknown>"
	}
	return strings.ReplaceAll(template, placeholder, value)
}

// Preview shortens a message for logs and reports.
func Preview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewLength {
		return message
	}
	return string(runes[:previewLength]) + "..."
}

// WhatsAppURL builds a web WhatsApp link that opens a chat with the
// message prefilled.
func WhatsAppURL(phone, message string) string {
	cleaned := strings.NewReplacer("+", "", " ", "", "-", "").Replace(phone)
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://web.whatsapp.com/send?phone=" + cleaned + "&text=" + encoded
}
