package result

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/pagetest"
	"ptacheck/pkg/requestcontext"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		ev      Evidence
		want    models.Status
		wantMsg string
	}{
		{name: "ok image", ev: Evidence{ImageSrc: "/static/img/ok_512.png", Text: "anything"}, want: models.StatusCompliant},
		{name: "blocked image", ev: Evidence{ImageSrc: "/static/img/blocked_512.png", Text: "IMEI is compliant"}, want: models.StatusNonCompliant},
		{name: "ok image outranks text", ev: Evidence{ImageSrc: "ok_512.png", Text: "non-compliant"}, want: models.StatusCompliant},
		{name: "both words means non-compliant", ev: Evidence{Text: "This device is not compliant; status: non-compliant"}, want: models.StatusNonCompliant},
		{name: "non compliant with space", ev: Evidence{Text: "Device is NON COMPLIANT"}, want: models.StatusNonCompliant},
		{name: "unpaid duty", ev: Evidence{Text: "PTA tax has not been paid for this device"}, want: models.StatusNonCompliant},
		{name: "plain compliant", ev: Evidence{Text: "This IMEI is Compliant"}, want: models.StatusCompliant},
		{name: "valid alone is not a verdict", ev: Evidence{Text: "IMEI is valid"}, want: models.StatusError, wantMsg: MsgUndeterminable},
		{name: "not valid is never compliant", ev: Evidence{Text: "This IMEI is not valid"}, want: models.StatusError, wantMsg: MsgUndeterminable},
		{name: "valid but pending", ev: Evidence{Text: "IMEI is valid but status pending"}, want: models.StatusError, wantMsg: MsgUndeterminable},
		{name: "valid/compliant banner", ev: Evidence{Text: "IMEI is valid/compliant"}, want: models.StatusCompliant},
		{name: "invalid", ev: Evidence{Text: "Invalid IMEI"}, want: models.StatusError, wantMsg: MsgInvalidOrError},
		{name: "error", ev: Evidence{Text: "An error occurred, try again"}, want: models.StatusError, wantMsg: MsgInvalidOrError},
		{name: "nothing recognizable", ev: Evidence{Text: "Please wait"}, want: models.StatusError, wantMsg: MsgUndeterminable},
		{name: "empty", ev: Evidence{}, want: models.StatusError, wantMsg: MsgUndeterminable},
		{name: "compliance is not compliant", ev: Evidence{Text: "compliance review pending"}, want: models.StatusError, wantMsg: MsgUndeterminable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := Classify(tt.ev)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", " ", "\x00", strings.Repeat("z", 10000), "compliant\nnon-compliant", "🙂", `"quoted"`}
	for _, text := range inputs {
		for _, src := range []string{"", "ok_512.png", "x.png"} {
			status, _ := Classify(Evidence{ImageSrc: src, Text: text})
			assert.True(t, status.IsValid(), "status %q for text %q", status, text)
		}
	}
}

func TestDeviceModel(t *testing.T) {
	assert.Equal(t, "SM-G991B", DeviceModel(`IMEI belongs to "SM-G991B" and is compliant`))
	assert.Equal(t, "Samsung Galaxy S21", DeviceModel("This IMEI is of Samsung Galaxy S21 device and is compliant"))
	assert.Equal(t, "", DeviceModel("compliant"))
}

// =============================================================================
// Page extraction
// =============================================================================

type ExtractSuite struct {
	suite.Suite
	ctx        context.Context
	at         time.Time
	id         imei.IMEI
	page       *pagetest.Page
	classifier *Classifier
}

func TestExtractSuite(t *testing.T) {
	suite.Run(t, new(ExtractSuite))
}

func (s *ExtractSuite) SetupTest() {
	s.at = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.at)
	s.id = imei.Must("355123456789019")
	s.page = &pagetest.Page{Shot: []byte("jpeg")}
	s.classifier = NewClassifier(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBannerWait(time.Millisecond),
	)
}

func (s *ExtractSuite) TestBannerCompliant() {
	pagetest.ResultPage("https://dirbs.pta.gov.pk/img/ok_512.png", `This IMEI is of "Pixel 8" device and is compliant`)(s.page)

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusCompliant, v.Status)
	s.Equal(s.id, v.IMEI)
	s.Equal(s.at, v.VerifiedAt)
	s.Require().NotNil(v.Details)
	s.Equal("Pixel 8", v.Details.DeviceModel)
	s.Equal("banner", v.Details.Source)
	s.Equal(base64.StdEncoding.EncodeToString([]byte("jpeg")), v.Details.Snapshot)
	s.Empty(v.ErrorMessage)
}

func (s *ExtractSuite) TestBannerBlocked() {
	pagetest.ResultPage("/img/blocked_512.png", "This IMEI is non-compliant")(s.page)

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusNonCompliant, v.Status)
}

func (s *ExtractSuite) TestBannerWithoutText() {
	pagetest.ResultPage("/img/ok_512.png", "  ")(s.page)

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusError, v.Status)
	s.Equal(MsgNoResultText, v.ErrorMessage)
}

func (s *ExtractSuite) TestBodyFallbackCompliant() {
	s.page.Body = "Result for 355123456789019: device is compliant"

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusCompliant, v.Status)
	s.Equal("page_text", v.Details.Source)
}

func (s *ExtractSuite) TestBodyFallbackNonCompliant() {
	s.page.Body = "Result for 355123456789019: device is non-compliant, tax has not been paid"

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusNonCompliant, v.Status)
}

func (s *ExtractSuite) TestBodyFallbackTruncatesRawText() {
	s.page.Body = "355123456789019 compliant " + strings.Repeat("x", 2000)

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Len(v.Details.RawText, rawTextLimit)
}

func (s *ExtractSuite) TestBodyFallbackRequiresIMEI() {
	s.page.Body = "Some other device 359871977331199 is compliant"

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusError, v.Status)
	s.Equal(MsgNoResultElements, v.ErrorMessage)
	s.NotEmpty(v.Details.Snapshot)
}

func (s *ExtractSuite) TestUnreadablePage() {
	s.page.ReadErr = errors.New("target crashed")

	v := s.classifier.Extract(s.ctx, s.page, s.id)

	s.Equal(models.StatusError, v.Status)
	s.Equal(MsgNoResultElements, v.ErrorMessage)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab", truncate("abcdef", 2))
	// "é" is two bytes; cutting inside it backs off to the rune start
	require.Equal(t, "a", truncate("aé", 2))
}
