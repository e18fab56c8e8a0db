package ui

import "testing"

func TestRouteFromPath(t *testing.T) {
	cases := map[string]route{
		"":         routeBooks,
		"/":        routeBooks,
		"/books":   routeBooks,
		"/Login":   routeLogin,
		"logout/":  routeLogout,
		" /logs ":  routeLogs,
		"/unknown": routeBooks,
	}
	for path, want := range cases {
		if got := routeFromPath(path); got != want {
			t.Fatalf("routeFromPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRoutePathRoundTrip(t *testing.T) {
	for _, r := range []route{routeBooks, routeLogin, routeLogout, routeLogs} {
		if got := routeFromPath(r.Path()); got != r {
			t.Fatalf("routeFromPath(%q) = %v, want %v", r.Path(), got, r)
		}
	}
}

func TestResolveRoute_GatesSessionPages(t *testing.T) {
	tests := []struct {
		requested route
		loggedIn  bool
		want      route
	}{
		{routeLogin, false, routeLogin},
		{routeLogin, true, routeBooks},
		{routeLogout, true, routeLogout},
		{routeLogout, false, routeBooks},
		{routeBooks, true, routeBooks},
		{routeLogs, false, routeLogs},
	}
	for _, tt := range tests {
		if got := resolveRoute(tt.requested, tt.loggedIn); got != tt.want {
			t.Fatalf("resolveRoute(%v, loggedIn=%v) = %v, want %v", tt.requested, tt.loggedIn, got, tt.want)
		}
	}
}

func TestNavItems(t *testing.T) {
	out := navItems(false)
	if len(out) != 3 || out[0] != routeBooks || out[1] != routeLogin || out[2] != routeLogs {
		t.Fatalf("navItems(false) = %v, want [Books Login Logs]", out)
	}
	in := navItems(true)
	if in[1] != routeLogout {
		t.Fatalf("navItems(true)[1] = %v, want Logout", in[1])
	}
	if sessionRoute(true) != routeLogout || sessionRoute(false) != routeLogin {
		t.Fatalf("sessionRoute mismatch")
	}
}

func TestCycleRoute(t *testing.T) {
	if got := cycleRoute(routeBooks, false, 1); got != routeLogin {
		t.Fatalf("cycleRoute forward = %v, want Login", got)
	}
	if got := cycleRoute(routeLogs, true, 1); got != routeBooks {
		t.Fatalf("cycleRoute wrap = %v, want Books", got)
	}
	if got := cycleRoute(routeBooks, true, -1); got != routeLogs {
		t.Fatalf("cycleRoute backward = %v, want Logs", got)
	}
	// A route not offered in the nav (Login while logged in) starts from Books.
	if got := cycleRoute(routeLogin, true, 1); got != routeLogout {
		t.Fatalf("cycleRoute from hidden route = %v, want Logout", got)
	}
}
