package indicator

import (
	"log"

	"github.com/location-sb/location-status/internal/applet/status"
)

// Icon is a loaded, renderable icon.
type Icon struct {
	Name string // theme asset name
	Size int    // pixel size
	Data []byte // PNG, empty for hosts that only need the name
}

// IconLoader resolves an asset name and pixel size to an Icon.
type IconLoader interface {
	LoadIcon(name string, size int) (*Icon, error)
}

// StatusArea is the small always-visible icon surface.
type StatusArea interface {
	// SetStatusAreaIcon shows icon, or removes the icon when nil.
	SetStatusAreaIcon(icon *Icon)
}

// Menu is the pop-up surface with a large icon and a label.
type Menu interface {
	SetMenuIcon(icon *Icon)
	SetMenuLabel(label string)
}

// siteState is what a render site currently shows. A zero value means
// nothing has been requested yet.
type siteState struct {
	known bool
	shown bool
	icon  IconID
}

// Presenter implements status.Renderer on top of an icon loader and the
// two render sites. It only issues a request when the icon at a site
// actually changes, and keeps the previous icon when loading fails.
type Presenter struct {
	loader IconLoader
	area   StatusArea
	menu   Menu
	theme  Theme

	areaState siteState
	menuState siteState
	requests  int
}

// NewPresenter creates a presenter with nothing rendered yet.
func NewPresenter(loader IconLoader, area StatusArea, menu Menu, theme Theme) *Presenter {
	return &Presenter{
		loader: loader,
		area:   area,
		menu:   menu,
		theme:  theme,
	}
}

// ShowStatusArea implements status.Renderer.
func (p *Presenter) ShowStatusArea(state status.VisualState, phase status.BlinkPhase) {
	id := StatusAreaIcon(state, phase)
	if p.areaState.shown && p.areaState.icon == id {
		return
	}

	icon, ok := p.load(SiteStatusArea, id)
	if !ok {
		return
	}
	p.area.SetStatusAreaIcon(icon)
	p.requests++
	p.areaState = siteState{known: true, shown: true, icon: id}
}

// HideStatusArea implements status.Renderer.
func (p *Presenter) HideStatusArea() {
	if p.areaState.known && !p.areaState.shown {
		return
	}
	p.area.SetStatusAreaIcon(nil)
	p.requests++
	p.areaState = siteState{known: true}
}

// ShowMenu implements status.Renderer.
func (p *Presenter) ShowMenu(state status.VisualState) {
	id := MenuIcon(state)
	if p.menuState.shown && p.menuState.icon == id {
		return
	}

	icon, ok := p.load(SiteMenu, id)
	if !ok {
		return
	}
	p.menu.SetMenuIcon(icon)
	p.requests++
	p.menuState = siteState{known: true, shown: true, icon: id}
}

// SetLabel sets the menu label.
func (p *Presenter) SetLabel(label string) {
	p.menu.SetMenuLabel(label)
}

// SetTheme swaps the theme and reloads whatever is currently shown.
func (p *Presenter) SetTheme(theme Theme) {
	p.theme = theme

	if p.areaState.shown {
		if icon, ok := p.load(SiteStatusArea, p.areaState.icon); ok {
			p.area.SetStatusAreaIcon(icon)
			p.requests++
		}
	}
	if p.menuState.shown {
		if icon, ok := p.load(SiteMenu, p.menuState.icon); ok {
			p.menu.SetMenuIcon(icon)
			p.requests++
		}
	}
}

// Current returns the icon shown at site and whether anything is shown.
func (p *Presenter) Current(site Site) (IconID, bool) {
	st := p.areaState
	if site == SiteMenu {
		st = p.menuState
	}
	return st.icon, st.shown
}

// Requests returns the number of render requests issued so far.
func (p *Presenter) Requests() int {
	return p.requests
}

func (p *Presenter) load(site Site, id IconID) (*Icon, bool) {
	name := p.theme.Asset(id)
	size := p.theme.Size(site)
	icon, err := p.loader.LoadIcon(name, size)
	if err != nil {
		log.Printf("[indicator] Keeping previous %s icon, failed to load %s@%d: %v", site, name, size, err)
		return nil, false
	}
	return icon, true
}
