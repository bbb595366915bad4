// Package dirbs describes the regulator's DIRBS verification page: the
// selectors the pipeline drives and the markers the result banner carries.
package dirbs

// DefaultURL is the public verification form.
const DefaultURL = "https://dirbs.pta.gov.pk/"

// Form selectors.
const (
	IMEIInput        = "input#imei"
	CaptchaImage     = "img#captchaimg"
	CaptchaTextInput = "input#txtCaptcha"
)

// Interactive (reCAPTCHA) challenge selectors.
const (
	InteractiveFrame    = "iframe[title='reCAPTCHA']"
	InteractiveWidget   = ".g-recaptcha"
	SiteKeyAttribute    = "data-sitekey"
	InteractiveResponse = "textarea.g-recaptcha-response"
)

// SubmitButtons are tried in order; the first present one is clicked.
var SubmitButtons = []string{
	"button#submit.btn.btn-medium.btn--green",
	"button#submit",
	"button[name='submit']",
	"button.btn-medium.btn--green",
}

// Result banner selectors.
const (
	ResultBanner      = "article.dirbs-banner"
	ResultBannerText  = "article.dirbs-banner p.text"
	ResultBannerImage = "article.dirbs-banner img"
)

// Status image tokens carried in the banner image src.
const (
	CompliantImageToken = "ok_512.png"
	BlockedImageToken   = "blocked_512.png"
)

// SnapshotQuality is the JPEG quality for diagnostic screenshots.
const SnapshotQuality = 50
