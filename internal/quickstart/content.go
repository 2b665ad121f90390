package quickstart

import "strings"

// Static copy shown next to the generated artifacts.

var CoderSteps = []string{
	"Open terminal at project root.",
	"Paste the command above.",
	"Follow the CLI wizard (project name, callback URLs, env keys).",
}

var CoderChecklist = []string{
	ConfigFile + " exists.",
	"ENV vars set.",
	"/login page renders provider buttons.",
}

const (
	Headline = "Fast, secure, open-source authentication."
	Tagline  = "Do auth in seconds"
)

// StruckTaglines are rendered crossed out before Tagline.
var StruckTaglines = []string{"Do auth in hours", "Do auth in minutes"}

type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var Features = []Feature{
	{Icon: "🏢", Title: "Organizations & teams", Description: "Manage users across multiple organizations with role-based access control."},
	{Icon: "🔐", Title: "Permissions & RBAC", Description: "Fine-grained permissions and role-based access control for your applications."},
	{Icon: "🔗", Title: "3rd-party OAuth", Description: "Seamless integration with Google, GitHub, and other OAuth providers."},
	{Icon: "🎨", Title: "Headless or headful UI", Description: "Choose between our beautiful pre-built UI or build your own custom interface."},
	{Icon: "👤", Title: "Impersonation", Description: "Test user experiences and debug issues with user impersonation features."},
	{Icon: "🔔", Title: "Webhooks", Description: "Get real-time notifications for user events and authentication activities."},
}

var Testimonials = []string{
	"Clicked three buttons and BOOM—Google login live in 2 min!",
	"I avoided auth for years; Stack-Auth made it fun.",
	"From zero to production-ready auth before my coffee cooled ☕.",
	"Lazy dev? Same. Stack-Auth saved me hours.",
	"Keeping it forever—best decision of this project.",
	"OAuth, OTP, email-magic—done in minutes.",
}

// FeaturesMarkdown lists Features as a markdown document.
func FeaturesMarkdown() string {
	var b strings.Builder
	b.WriteString("# " + Headline + "\n\n")
	for _, f := range Features {
		b.WriteString("## " + f.Icon + " " + f.Title + "\n\n")
		b.WriteString(f.Description + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
