// Package content models the institution's CMS documents and the read-only
// queries the site issues against them.
package content

import (
	"strings"
	"time"
)

// Document types stored in the CMS.
const (
	TypeSiteSettings    = "siteSettings"
	TypePage            = "page"
	TypeNewsEvent       = "newsEvent"
	TypeAcademicProgram = "academicProgram"
	TypeStaffMember     = "staffMember"
	TypeFacility        = "facility"
)

// DocumentTypes lists every type the site reads.
var DocumentTypes = []string{
	TypeSiteSettings,
	TypePage,
	TypeNewsEvent,
	TypeAcademicProgram,
	TypeStaffMember,
	TypeFacility,
}

// DraftPrefix marks unpublished document ids.
const DraftPrefix = "drafts."

// IsDraftID reports whether id names a draft document.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftPrefix)
}

// PublishedID strips the draft prefix from id.
func PublishedID(id string) string {
	return strings.TrimPrefix(id, DraftPrefix)
}

// MultilingualText pairs the Bengali and English forms of one string.
// Either side may be empty.
type MultilingualText struct {
	Bengali string `json:"bengali,omitempty" yaml:"bengali,omitempty"`
	English string `json:"english,omitempty" yaml:"english,omitempty"`
}

// MultilingualArray pairs per-language string lists.
type MultilingualArray struct {
	Bengali []string `json:"bengali,omitempty" yaml:"bengali,omitempty"`
	English []string `json:"english,omitempty" yaml:"english,omitempty"`
}

// Slug is a CMS slug object.
type Slug struct {
	Current string `json:"current,omitempty" yaml:"current,omitempty"`
}

// MultilingualSlug holds per-language URL slugs.
type MultilingualSlug struct {
	Bengali Slug `json:"bengali" yaml:"bengali"`
	English Slug `json:"english" yaml:"english"`
}

// AssetRef points at an uploaded CMS asset.
type AssetRef struct {
	Ref string `json:"_ref" yaml:"_ref"`
}

// Hotspot is the editor-selected focal area of an image.
type Hotspot struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ImageRef is an image field on a document.
type ImageRef struct {
	Asset   AssetRef         `json:"asset" yaml:"asset"`
	Alt     MultilingualText `json:"alt" yaml:"alt"`
	Hotspot *Hotspot         `json:"hotspot,omitempty" yaml:"hotspot,omitempty"`
}

// Ref returns the asset reference, tolerating a nil image.
func (i *ImageRef) Ref() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Asset.Ref)
}

// DateTime is a CMS date or datetime string. Values sort lexically when
// stored in UTC.
type DateTime string

var dateTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// Time parses d. ok is false for empty or malformed values.
func (d DateTime) Time() (time.Time, bool) {
	value := strings.TrimSpace(string(d))
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsZero reports whether d carries no usable time.
func (d DateTime) IsZero() bool {
	_, ok := d.Time()
	return !ok
}

// NewDateTime formats t the way the CMS stores datetimes.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UTC().Format("2006-01-02T15:04:05Z"))
}

// Document carries the CMS metadata every document shares.
type Document struct {
	ID        string   `json:"_id" yaml:"_id"`
	Type      string   `json:"_type" yaml:"_type"`
	CreatedAt DateTime `json:"_createdAt,omitempty" yaml:"_createdAt,omitempty"`
	UpdatedAt DateTime `json:"_updatedAt,omitempty" yaml:"_updatedAt,omitempty"`
}

// ContactInfo is the institution's public contact block.
type ContactInfo struct {
	Address MultilingualText `json:"address" yaml:"address"`
	Phone   string           `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string           `json:"email,omitempty" yaml:"email,omitempty"`
	MapURL  string           `json:"mapUrl,omitempty" yaml:"mapUrl,omitempty"`
}

// SocialLink is one social profile link.
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

// SiteSettings is the singleton site configuration document.
type SiteSettings struct {
	Document
	Title       MultilingualText `json:"title" yaml:"title"`
	Description MultilingualText `json:"description" yaml:"description"`
	Logo        *ImageRef        `json:"logo,omitempty" yaml:"logo,omitempty"`
	Favicon     *ImageRef        `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	Contact     ContactInfo      `json:"contact" yaml:"contact"`
	Social      []SocialLink     `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty"`
	FooterText  MultilingualText `json:"footerText" yaml:"footerText"`
}

// SEOOverrides replaces derived page metadata.
type SEOOverrides struct {
	MetaTitle       MultilingualText `json:"metaTitle" yaml:"metaTitle"`
	MetaDescription MultilingualText `json:"metaDescription" yaml:"metaDescription"`
}

// Page is a free-form content page such as "about" or "history". Body holds
// rich text rendered to HTML per language.
type Page struct {
	Document
	Title     MultilingualText `json:"title" yaml:"title"`
	Slug      MultilingualSlug `json:"slug" yaml:"slug"`
	Body      MultilingualText `json:"body" yaml:"body"`
	HeroImage *ImageRef        `json:"heroImage,omitempty" yaml:"heroImage,omitempty"`
	SEO       *SEOOverrides    `json:"seo,omitempty" yaml:"seo,omitempty"`
}

// Category groups news items.
type Category string

const (
	CategoryNews         Category = "news"
	CategoryEvent        Category = "event"
	CategoryAnnouncement Category = "announcement"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryNews, CategoryEvent, CategoryAnnouncement}

// ParseCategory reports whether value names a category.
func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// NewsEvent is a news item, event or announcement.
type NewsEvent struct {
	Document
	Title       MultilingualText `json:"title" yaml:"title"`
	Slug        MultilingualSlug `json:"slug" yaml:"slug"`
	Excerpt     MultilingualText `json:"excerpt" yaml:"excerpt"`
	Body        MultilingualText `json:"body" yaml:"body"`
	Category    Category         `json:"category" yaml:"category"`
	Featured    bool             `json:"featured,omitempty" yaml:"featured,omitempty"`
	PublishedAt DateTime         `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	EventDate   DateTime         `json:"eventDate,omitempty" yaml:"eventDate,omitempty"`
	Location    MultilingualText `json:"location" yaml:"location"`
	Image       *ImageRef        `json:"image,omitempty" yaml:"image,omitempty"`
}

// AcademicProgram is one course of study.
type AcademicProgram struct {
	Document
	Title       MultilingualText  `json:"title" yaml:"title"`
	Slug        MultilingualSlug  `json:"slug" yaml:"slug"`
	Description MultilingualText  `json:"description" yaml:"description"`
	Level       MultilingualText  `json:"level" yaml:"level"`
	Duration    MultilingualText  `json:"duration" yaml:"duration"`
	Curriculum  MultilingualArray `json:"curriculum" yaml:"curriculum"`
	Order       int               `json:"order" yaml:"order"`
	Image       *ImageRef         `json:"image,omitempty" yaml:"image,omitempty"`
}

// StaffMember is a teacher or administrator.
type StaffMember struct {
	Document
	Name         MultilingualText `json:"name" yaml:"name"`
	Role         MultilingualText `json:"role" yaml:"role"`
	Bio          MultilingualText `json:"bio" yaml:"bio"`
	IsLeadership bool             `json:"isLeadership,omitempty" yaml:"isLeadership,omitempty"`
	Order        int              `json:"order" yaml:"order"`
	Photo        *ImageRef        `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// Facility is a campus facility.
type Facility struct {
	Document
	Name        MultilingualText `json:"name" yaml:"name"`
	Description MultilingualText `json:"description" yaml:"description"`
	Featured    bool             `json:"featured,omitempty" yaml:"featured,omitempty"`
	Order       int              `json:"order" yaml:"order"`
	Image       *ImageRef        `json:"image,omitempty" yaml:"image,omitempty"`
}
