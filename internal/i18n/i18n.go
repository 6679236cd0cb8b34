// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n formats dates and numerals for the site's display locale.
package i18n

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale post dates are rendered in unless configured.
const DefaultLocale = "bn-BD"

// supported lists the locales with date tables, in matcher preference order.
var supported = []language.Tag{
	language.MustParse("bn-BD"),
	language.English,
}

var matcher = language.NewMatcher(supported)

var bengaliMonths = [12]string{
	"জানুয়ারী", "ফেব্রুয়ারী", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

var bengaliDigits = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// Locale formats values for one display language.
type Locale struct {
	tag     language.Tag
	bengali bool
}

// NewLocale matches the requested BCP 47 tag against the supported locales.
// Unparseable or unsupported tags fall back to the first supported locale.
func NewLocale(tag string) *Locale {
	requested, err := language.Parse(tag)
	if err != nil {
		requested = supported[0]
	}
	_, idx, _ := matcher.Match(requested)
	matched := supported[idx]
	base, _ := matched.Base()
	return &Locale{tag: matched, bengali: base.String() == "bn"}
}

// Tag returns the matched locale tag.
func (l *Locale) Tag() string {
	return l.tag.String()
}

// FormatDate renders a long-form date, e.g. "১৪ অক্টোবর, ২০২৬" or
// "October 14, 2026".
func (l *Locale) FormatDate(t time.Time) string {
	if !l.bengali {
		return t.Format("January 2, 2006")
	}
	return l.Digits(strconv.Itoa(t.Day())) + " " + bengaliMonths[t.Month()-1] + ", " + l.Digits(strconv.Itoa(t.Year()))
}

// Digits converts ASCII digits to the locale's numerals.
func (l *Locale) Digits(s string) string {
	if !l.bengali {
		return s
	}
	return bengaliDigits.Replace(s)
}
