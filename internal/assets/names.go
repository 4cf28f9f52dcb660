package assets

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "github"

// Page template names. Every complete asset directory provides all three.
const (
	DocumentTemplateName = "document"
	LandingTemplateName  = "landing"
	ErrorTemplateName    = "error"
)
