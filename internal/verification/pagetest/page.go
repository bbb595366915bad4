// Package pagetest provides an in-memory regulator page for pipeline tests.
package pagetest

import (
	"context"
	"sync"
	"time"

	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/ports"
)

// Element is one addressable node on the fake page.
type Element struct {
	Visible bool
	Text    string
	Attrs   map[string]string
	Shot    []byte
}

// Page is a scriptable ports.Session. Zero value is an empty page.
type Page struct {
	mu sync.Mutex

	Elements map[string]Element
	Body     string
	URL      string
	Shot     []byte

	// ReadErr is returned by every read when set.
	ReadErr     error
	NavigateErr error
	FillErr     error
	TriggerErr  error

	// OnNavigate and OnTrigger let tests swap page state like a real load.
	OnNavigate func(p *Page)
	OnTrigger  func(p *Page)

	Navigations []string
	Fills       []ports.Submission
	Triggers    int
	Closed      bool
}

var _ ports.Session = (*Page)(nil)

// Set replaces the element at selector.
func (p *Page) Set(selector string, el Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Elements == nil {
		p.Elements = make(map[string]Element)
	}
	p.Elements[selector] = el
}

// Reset clears all elements and body text.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Elements = nil
	p.Body = ""
}

func (p *Page) lookup(selector string) (Element, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ReadErr != nil {
		return Element{}, false, p.ReadErr
	}
	el, ok := p.Elements[selector]
	return el, ok, nil
}

func (p *Page) Exists(_ context.Context, selector string) (bool, error) {
	_, ok, err := p.lookup(selector)
	return ok, err
}

func (p *Page) Visible(_ context.Context, selector string) (bool, error) {
	el, ok, err := p.lookup(selector)
	return ok && el.Visible, err
}

func (p *Page) WaitVisible(ctx context.Context, selector string, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.Visible(ctx, selector)
}

func (p *Page) Attribute(_ context.Context, selector, name string) (string, bool, error) {
	el, ok, err := p.lookup(selector)
	if err != nil || !ok {
		return "", false, err
	}
	v, ok := el.Attrs[name]
	return v, ok, nil
}

func (p *Page) Text(_ context.Context, selector string) (string, error) {
	el, _, err := p.lookup(selector)
	return el.Text, err
}

func (p *Page) BodyText(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ReadErr != nil {
		return "", p.ReadErr
	}
	return p.Body, nil
}

func (p *Page) Location(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.URL, p.ReadErr
}

func (p *Page) ElementScreenshot(_ context.Context, selector string) ([]byte, error) {
	el, _, err := p.lookup(selector)
	return el.Shot, err
}

func (p *Page) Screenshot(context.Context, int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Shot, nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.Navigations = append(p.Navigations, url)
	if p.NavigateErr != nil {
		err := p.NavigateErr
		p.mu.Unlock()
		return err
	}
	p.URL = url
	hook := p.OnNavigate
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) Fill(_ context.Context, sub ports.Submission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Fills = append(p.Fills, sub)
	return p.FillErr
}

func (p *Page) TriggerEvaluation(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.Triggers++
	if p.TriggerErr != nil {
		err := p.TriggerErr
		p.mu.Unlock()
		return err
	}
	hook := p.OnTrigger
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// FormPage renders the verification form with no challenge.
func FormPage(p *Page) {
	p.Reset()
	p.Set(dirbs.IMEIInput, Element{Visible: true})
	p.Body = "Verify your device IMEI"
}

// ResultPage renders the result banner with the given status image and text.
func ResultPage(imageSrc, text string) func(p *Page) {
	return func(p *Page) {
		p.Reset()
		p.Set(dirbs.ResultBanner, Element{Visible: true, Text: text})
		p.Set(dirbs.ResultBannerText, Element{Visible: true, Text: text})
		p.Set(dirbs.ResultBannerImage, Element{Visible: true, Attrs: map[string]string{"src": imageSrc}})
		p.Body = text
	}
}

// Factory hands out the same page for every Open call.
type Factory struct {
	Page    *Page
	OpenErr error
	mu      sync.Mutex
	Opens   int
}

func (f *Factory) Open(ctx context.Context) (ports.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opens++
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.Page.mu.Lock()
	f.Page.Closed = false
	f.Page.mu.Unlock()
	return f.Page, nil
}
