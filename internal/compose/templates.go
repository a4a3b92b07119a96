// internal/compose/templates.go
package compose

// CreationTemplates pitch a first website to businesses without one.
var CreationTemplates = []string{
	"Hi {business_name}, your business sounds amazing! I help local brands like yours create professional websites that attract more customers online. Would you like me to send a free mockup idea?",

	"Hello {business_name}, I came across your business — it looks great! I specialize in creating simple, beautiful websites that make it easier for customers to find and contact you. Want to see a free demo?",

	"Hi {business_name}, we recently helped a similar business increase online leads by 40% after launching a modern website. I'd love to show you how a site could boost your visibility too. Shall I send you an example?",

	"Hey {business_name}! I noticed you don't have a website yet. In today's digital world, having an online presence can really help grow your business. I'd be happy to create a free concept for you. Interested?",

	"Hello {business_name}, I build affordable, professional websites for small businesses like yours. A website helps customers find you 24/7 and builds trust. Want to discuss your options?",
}

// EnhancementTemplates pitch a redesign to businesses that already
// have a website.
var EnhancementTemplates = []string{
	"Hey {business_name}, I checked out your website ({website}) — it's great! I specialize in modern redesigns that improve speed, mobile look, and Google ranking. Would you like a free concept preview?",

	"Hello {business_name}, I saw your website and think it could attract even more customers with a cleaner layout and better mobile performance. I can prepare a few enhancement ideas at no cost — interested?",

	"Hi {business_name}, your current site looks good, but a refreshed design could make it feel more premium and boost conversions. I can share a quick concept for free if you're open to it!",

	"Hey {business_name}, I took a look at {website} and see some opportunities to improve user experience and SEO. Would you be interested in a complimentary website audit and redesign proposal?",

	"Hello {business_name}, your website has potential! I help businesses modernize their sites to increase engagement and sales. Can I show you what an upgrade might look like?",
}
