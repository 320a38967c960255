package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// chromePage is a Page backed by a chromedp tab context.
type chromePage struct {
	ctx        context.Context
	cancel     context.CancelFunc
	navTimeout time.Duration
}

func (p *chromePage) Navigate(url string) error {
	navCtx, cancel := context.WithTimeout(p.ctx, p.navTimeout)
	defer cancel()
	return chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromePage) HTML() (string, error) {
	var html string
	err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *chromePage) Scroll() error {
	return chromedp.Run(p.ctx,
		chromedp.Evaluate(`window.scrollBy(0, window.innerHeight * 2)`, nil),
	)
}

func (p *chromePage) Screenshot() ([]byte, error) {
	var buf []byte
	err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 90))
	return buf, err
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}
