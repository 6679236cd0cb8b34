// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the single page.
	RouteRoot = "/"
	// RouteToggle flips between Home and Admin.
	RouteToggle = "/toggle"
	// RouteHome selects the Home view.
	RouteHome = "/home"
	// RouteLogin is the passkey submission route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteProfile saves the profile editor.
	RouteProfile = "/profile"
	// RoutePosts handles the composer actions.
	RoutePosts = "/posts"
	// RoutePostDelete confirms and performs post deletion.
	RoutePostDelete = "/posts/{id}/delete"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"
)

// Redirect targets.
const (
	redirectRoot  = "/"
	redirectLogin = "/?login=1"
)

// Composer actions sent as the value of the "action" button.
const (
	ActionEnhance = "enhance"
	ActionPublish = "publish"
)

// User-facing messages.
const (
	MsgWrongPasskey    = "সঠিক পাসকি লিখুন।"
	MsgProfileSaved    = "প্রোফাইল সফলভাবে আপডেট করা হয়েছে!"
	MsgSaveFailed      = "তথ্য সংরক্ষণ করা যায়নি। আবার চেষ্টা করুন।"
	MsgInvalidForm     = "ফর্মের তথ্য পড়া যায়নি।"
	MsgPostNotFound    = "পোস্টটি খুঁজে পাওয়া যায়নি।"
	MsgPostDeleted     = "পোস্টটি মুছে ফেলা হয়েছে।"
	MsgUnknownAction   = "অজানা কাজ।"
	MsgEnhanceDisabled = "AI কনফিগার করা নেই"
)

// Page titles.
const (
	titleAdmin         = "অ্যাডমিন ড্যাশবোর্ড"
	titleConfirmDelete = "পোস্ট মুছুন"
)

// recentEventsShown is the number of warning events listed on the Admin view.
const recentEventsShown = 20
