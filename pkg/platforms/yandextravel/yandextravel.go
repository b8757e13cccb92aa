// Package yandextravel scrapes flight offers from Yandex Travel.
package yandextravel

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/whttp"
)

const (
	baseURL     = "https://travel.yandex.ru"
	maxListings = 15
)

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return "Яндекс.Путешествия" }

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	pageURL := fmt.Sprintf("%s/flights/%s-%s/%s/",
		baseURL, q.Origin, q.Destination, q.Date.Format("2006-01-02"))

	res, err := whttp.Fetch(ctx, a.client, &whttp.Request{URL: pageURL})
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var raws []listing.Raw
	doc.Find(".flight-card, .ticket, [class*=\"flight\"]").Each(func(_ int, card *goquery.Selection) {
		if len(raws) >= maxListings {
			return
		}
		price := platforms.FirstText(card, ".price, .cost")
		if price == "" {
			return
		}
		raws = append(raws, listing.Raw{
			Airline:  platforms.FirstText(card, ".airline, .carrier"),
			Price:    price,
			Time:     platforms.FirstText(card, ".time, .duration"),
			Route:    platforms.FirstText(card, ".route, .path"),
			URL:      platforms.FirstHref(card, baseURL),
			Platform: a.Name(),
		})
	})
	return raws, nil
}
