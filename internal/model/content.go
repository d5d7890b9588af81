// Package model defines the core content data types.
package model

import "time"

// Region is a canonical brain region. It carries semantic attributes only;
// per-view geometry lives in Geometry.
type Region struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Area        string   `json:"area" yaml:"area"`
	Color       string   `json:"color" yaml:"color"`
	Description string   `json:"description" yaml:"description"`
	Topics      []string `json:"topics" yaml:"topics"`
}

// Point is a position in a view's 0-100 coordinate space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Geometry is a view-specific rendering hint for one region.
type Geometry struct {
	Position Point  `json:"position" yaml:"position"`
	Path     string `json:"path" yaml:"path"`
}

// RegionView is a region joined with the geometry of a single view.
type RegionView struct {
	Region
	Position Point  `json:"position"`
	Path     string `json:"path"`
}

// FrameworkPoint is one step of a mental model's framework.
type FrameworkPoint struct {
	Point  string `json:"point" yaml:"point"`
	Detail string `json:"detail" yaml:"detail"`
}

// MentalModel is a named thinking framework.
type MentalModel struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Category    string           `json:"category" yaml:"category"`
	Color       string           `json:"color" yaml:"color"`
	Description string           `json:"description" yaml:"description"`
	Framework   []FrameworkPoint `json:"framework" yaml:"framework"`
	Engagement  int              `json:"engagement" yaml:"engagement"`
}

// Scenario is a decision situation walked through with a framework.
type Scenario struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Color       string   `json:"color" yaml:"color"`
	Framework   []string `json:"framework" yaml:"framework"`
}

// CoachingPlan is a purchasable coaching offer.
type CoachingPlan struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Subtitle    string   `json:"subtitle" yaml:"subtitle"`
	Price       string   `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	CTA         string   `json:"cta" yaml:"cta"`
	Highlighted bool     `json:"highlighted" yaml:"highlighted"`
	Color       string   `json:"color" yaml:"color"`
}

// Thought is a single entry in the thought feed.
type Thought struct {
	ID         string    `json:"id" yaml:"id"`
	Content    string    `json:"content" yaml:"content"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Type       string    `json:"type" yaml:"type"`
	Engagement int       `json:"engagement" yaml:"engagement"`
	Region     string    `json:"region" yaml:"region"`
}

// Notification is a canned message the notification simulator draws from.
type Notification struct {
	Content string `json:"content" yaml:"content"`
	Type    string `json:"type" yaml:"type"`
	Region  string `json:"region" yaml:"region"`
}

// ValidThoughtTypes are the allowed thought types.
var ValidThoughtTypes = map[string]bool{
	"insight":    true,
	"reflection": true,
	"question":   true,
	"lesson":     true,
	"live":       true,
}

// ValidDifficulties are the allowed scenario difficulty levels.
var ValidDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}
