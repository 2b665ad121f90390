package quickstart

import "strings"

const (
	DocsOverviewURL  = "https://docs.stack-auth.com/docs/react/overview"
	ProvidersDocsURL = "https://docs.stack-auth.com/docs/react/concepts/auth-providers"

	// ConfigFile is where an existing installation lists its providers.
	ConfigFile = "stack.config.ts"
)

// Flags and tokens the agent is asked to report back.
const (
	FlagAuthPresent    = "AUTH_PRESENT"
	FlagButtonsPresent = "BUTTONS_PRESENT"
	TokenSuccess       = "SUCCESS"
)

// DocLink returns the per-provider anchor in the auth providers page.
func DocLink(id string) string {
	return ProvidersDocsURL + "#" + id
}

// BuildPrompt renders the four-part agent instructions for ids. The output
// depends only on ids.
func BuildPrompt(ids []string) string {
	csv := ProviderCSV(ids)
	links := make([]string, len(ids))
	for i, id := range ids {
		links[i] = DocLink(id)
	}

	var b strings.Builder

	b.WriteString("Part 1 – Evaluate Current Setup\n")
	b.WriteString("Scan the project for Stack-Auth config files.\n\n")
	b.WriteString("Check for existing login/sign-up buttons.\n\n")
	b.WriteString("Return " + FlagAuthPresent + " and " + FlagButtonsPresent + " flags.\n\n")

	b.WriteString("Part 2 – Read Docs\n")
	b.WriteString(DocsOverviewURL + "\n")
	b.WriteString(strings.Join(links, "\n") + "\n\n")

	b.WriteString("Part 3 – Install or Update Auth\n")
	b.WriteString("If " + FlagAuthPresent + "=false:\n")
	b.WriteString("a. Run " + CommandPrefix + csv + "\n")
	b.WriteString("b. Complete the CLI.\n\n")
	b.WriteString("If " + FlagAuthPresent + "=true:\n")
	b.WriteString("a. Ensure " + csv + " are enabled in " + ConfigFile + "\n")
	b.WriteString("b. Add missing buttons.\n\n")

	b.WriteString("Verification Checklist\n")
	b.WriteString(" " + ConfigFile + " lists " + csv + "\n\n")
	b.WriteString(" ENV vars set\n\n")
	b.WriteString(" /login navigates to /dashboard on success\n\n")
	b.WriteString("Return " + TokenSuccess + " when all boxes are checked.")

	return b.String()
}
