package ui

import "strings"

// route identifies a page.
type route int

const (
	routeBooks route = iota
	routeLogin
	routeLogout
	routeLogs
)

func (r route) String() string {
	switch r {
	case routeLogin:
		return "Login"
	case routeLogout:
		return "Logout"
	case routeLogs:
		return "Logs"
	default:
		return "Books"
	}
}

// Path returns the page's path.
func (r route) Path() string {
	return "/" + strings.ToLower(r.String())
}

// routeFromPath maps a path to a route. The root and unknown paths go to
// the books page.
func routeFromPath(path string) route {
	switch strings.Trim(strings.ToLower(strings.TrimSpace(path)), "/") {
	case "login":
		return routeLogin
	case "logout":
		return routeLogout
	case "logs":
		return routeLogs
	default:
		return routeBooks
	}
}

// resolveRoute applies the session gate: Login is only reachable while
// logged out and Logout only while logged in. Anything else lands on Books.
func resolveRoute(requested route, loggedIn bool) route {
	switch requested {
	case routeLogin:
		if loggedIn {
			return routeBooks
		}
	case routeLogout:
		if !loggedIn {
			return routeBooks
		}
	}
	return requested
}

// navItems returns the navigation entries in display order.
func navItems(loggedIn bool) []route {
	session := routeLogin
	if loggedIn {
		session = routeLogout
	}
	return []route{routeBooks, session, routeLogs}
}

// sessionRoute is the Login or Logout entry, whichever is offered.
func sessionRoute(loggedIn bool) route {
	return navItems(loggedIn)[1]
}

// cycleRoute returns the nav entry step places away from current.
func cycleRoute(current route, loggedIn bool, step int) route {
	items := navItems(loggedIn)
	idx := 0
	for i, r := range items {
		if r == current {
			idx = i
			break
		}
	}
	n := len(items)
	return items[((idx+step)%n+n)%n]
}
