// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"net/url"
	"strings"
)

// avatarBaseURL generates a placeholder avatar when no profile image is set.
const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Profile describes the site owner. Exactly one exists.
// JSON field names match the persisted site_profile layout.
type Profile struct {
	Name            string `json:"name" yaml:"name"`
	Role            string `json:"role" yaml:"role"`
	Description     string `json:"description" yaml:"description"`
	ProfileImageURL string `json:"profileImageUrl" yaml:"profileImageUrl"`
	FacebookURL     string `json:"facebookUrl" yaml:"facebookUrl"`
	WhatsappURL     string `json:"whatsappUrl" yaml:"whatsappUrl"`
	Email           string `json:"email" yaml:"email"`
}

// DefaultProfile returns the built-in profile used until the owner saves one.
func DefaultProfile() Profile {
	return Profile{
		Name:            "আরিফুল ইসলাম",
		Role:            "কন্টেন্ট ক্রিয়েটর ও ডিজিটাল ডেভেলপার",
		Description:     "আমি ডিজিটাল কন্টেন্ট তৈরি করতে এবং নতুন প্রযুক্তি নিয়ে কাজ করতে ভালোবাসি। আমার এই পোর্টালে আপনি আমার নিয়মিত কাজের আপডেট, চিন্তা-ভাবনা এবং বিভিন্ন গুরুত্বপূর্ণ বিষয় জানতে পারবেন। নিচে আমার লেটেস্ট পোস্টগুলো দেখে নিন!",
		ProfileImageURL: "",
		FacebookURL:     "https://www.facebook.com/share/1BSDL6UDCG/",
		WhatsappURL:     "",
		Email:           "ariful40807@gmail.com",
	}
}

// Normalize trims every field and NFC-normalizes the free-text ones.
func (p Profile) Normalize() Profile {
	p.Name = normalizeText(p.Name)
	p.Role = normalizeText(p.Role)
	p.Description = normalizeText(p.Description)
	p.ProfileImageURL = strings.TrimSpace(p.ProfileImageURL)
	p.FacebookURL = strings.TrimSpace(p.FacebookURL)
	p.WhatsappURL = strings.TrimSpace(p.WhatsappURL)
	p.Email = strings.TrimSpace(p.Email)
	return p
}

// Validate rejects profiles missing the fields the editor marks required.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: MsgProfileNameRequired}
	}
	if strings.TrimSpace(p.Role) == "" {
		return &ValidationError{Field: "role", Message: MsgProfileRoleRequired}
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return &ValidationError{Field: "email", Message: MsgProfileEmailInvalid}
	}
	return nil
}

// AvatarURL returns the profile image or a generated avatar seeded by name.
func (p Profile) AvatarURL() string {
	if p.ProfileImageURL != "" {
		return p.ProfileImageURL
	}
	return avatarBaseURL + url.QueryEscape(p.Name)
}

// WhatsappLink returns the wa.me link for the stored number, or "".
func (p Profile) WhatsappLink() string {
	if p.WhatsappURL == "" {
		return ""
	}
	if strings.HasPrefix(p.WhatsappURL, "https://") {
		return p.WhatsappURL
	}
	return "https://wa.me/" + strings.TrimPrefix(p.WhatsappURL, "+")
}

// MailtoLink returns a mailto: link for the email, or "".
func (p Profile) MailtoLink() string {
	if p.Email == "" {
		return ""
	}
	return "mailto:" + p.Email
}
