package content

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var rawContent []byte

type Task struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	TargetWins  int    `yaml:"targetWins" json:"targetWins"`
	Reward      int    `yaml:"reward" json:"reward"`
}

type Activity struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	UnlockPrice int    `yaml:"unlockPrice" json:"unlockPrice"`
	Cost        int    `yaml:"cost" json:"cost"`
	Relief      int    `yaml:"relief" json:"relief"`
}

type Upgrade struct {
	Kind  string `yaml:"kind" json:"kind"`
	Title string `yaml:"title" json:"title"`
	Price int    `yaml:"price" json:"price"`
}

type Flavor struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

// Content is the static game data shipped with the binary
type Content struct {
	Tasks          []Task     `yaml:"tasks"`
	Activities     []Activity `yaml:"activities"`
	Upgrades       []Upgrade  `yaml:"upgrades"`
	Flavor         []Flavor   `yaml:"flavor"`
	FallbackFlavor Flavor     `yaml:"fallbackFlavor"`
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing game content: %w", err)
	}
	if len(c.Tasks) == 0 {
		return nil, fmt.Errorf("game content has no tasks")
	}
	return &c, nil
}

// Default returns the embedded content. The embedded file is part of the
// build, so a parse failure is a programming error.
func Default() *Content {
	c, err := Parse(rawContent)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Content) TaskIDs() []string {
	ids := make([]string, len(c.Tasks))
	for i, t := range c.Tasks {
		ids[i] = t.ID
	}
	return ids
}

func (c *Content) Activity(name string) (Activity, bool) {
	for _, a := range c.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

func (c *Content) Upgrade(kind string) (Upgrade, bool) {
	for _, u := range c.Upgrades {
		if u.Kind == kind {
			return u, true
		}
	}
	return Upgrade{}, false
}

// FlavorAt never fails: any out-of-range step yields the fallback entry
func (c *Content) FlavorAt(step int) Flavor {
	if step < 0 || step >= len(c.Flavor) {
		return c.FallbackFlavor
	}
	return c.Flavor[step]
}

// FlavorFor accepts the raw step as sent by a client, which may be missing,
// non-numeric or out of range.
func (c *Content) FlavorFor(raw string) Flavor {
	step, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return c.FallbackFlavor
	}
	return c.FlavorAt(step)
}
