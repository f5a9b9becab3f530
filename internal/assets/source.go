package assets

// Source reads raw asset bytes by slash-separated relative name.
// Implementations return an error wrapping ErrAssetNotFound when the asset
// does not exist and ErrInvalidAssetName when the name is unsafe.
type Source interface {
	ReadAsset(name string) ([]byte, error)
}

// Well-known asset names.
const (
	DefaultTemplate   = "default.html"
	DefaultBackground = "background.png"
	DefaultFont       = "assets/fonts/MonaSansVF-Regular.woff2"
	FallbackFont      = "assets/fonts/GoRegular.ttf" // compiled in, see EmbeddedSource
	ColorTableFile    = "linguist-colors.yml"
	IconDir           = "assets/icons"
)

// Icon names used by the card.
const (
	IconStar         = "star"
	IconFork         = "repo-forked"
	IconContributors = "people"
	IconIssue        = "issue-opened"
	IconDiscussion   = "comment-discussion"
)
