package bot

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourorg/sgbusbot/internal/models"
)

// ----------------------------------------------------------------------------
// fakes
// ----------------------------------------------------------------------------

type sentText struct {
	chatID int64
	text   string
}

type sentButtons struct {
	chatID int64
	text   string
	grid   [][]Button
}

type sentLocation struct {
	chatID   int64
	lat, lon float64
}

type fakeGateway struct {
	texts     []sentText
	buttons   []sentButtons
	locations []sentLocation
	acks      []string
	order     []string // interleaving of "text", "buttons", "location"
}

func (g *fakeGateway) SendText(chatID int64, text string) error {
	g.texts = append(g.texts, sentText{chatID, text})
	g.order = append(g.order, "text")
	return nil
}

func (g *fakeGateway) SendButtons(chatID int64, text string, grid [][]Button) error {
	g.buttons = append(g.buttons, sentButtons{chatID, text, grid})
	g.order = append(g.order, "buttons")
	return nil
}

func (g *fakeGateway) SendLocation(chatID int64, lat, lon float64) error {
	g.locations = append(g.locations, sentLocation{chatID, lat, lon})
	g.order = append(g.order, "location")
	return nil
}

func (g *fakeGateway) AcknowledgeTap(tapID string) error {
	g.acks = append(g.acks, tapID)
	return nil
}

type fakeLive struct {
	services map[string][]models.ServiceArrival
	arrivals map[string][]models.ArrivalEstimate
}

func (l *fakeLive) ServicesAtStop(code string) ([]models.ServiceArrival, error) {
	return l.services[code], nil
}

func (l *fakeLive) Arrivals(code, serviceNo string) ([]models.ArrivalEstimate, error) {
	if arr, ok := l.arrivals[code+":"+serviceNo]; ok {
		return arr, nil
	}
	return nil, models.ErrNoMoreBuses
}

type fakeData struct {
	stops      []models.StopRecord
	directions map[string][]models.ServiceDirection
	routes     map[string][]string
}

func (d *fakeData) StopByCode(code string) (models.StopRecord, error) {
	for _, s := range d.stops {
		if s.Code == code {
			return s, nil
		}
	}
	return models.StopRecord{}, models.ErrNoStopsFound
}

func (d *fakeData) SearchStopsByDescription(query string) ([]models.StopRecord, error) {
	phrase := strings.ToLower(query)
	var matches []models.StopRecord
	for _, s := range d.stops {
		if strings.Contains(strings.ToLower(s.Description), phrase) {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return nil, models.ErrNoStopsFound
	}
	return matches, nil
}

func (d *fakeData) Directions(serviceNo string) ([]models.ServiceDirection, error) {
	if dirs, ok := d.directions[strings.ToLower(serviceNo)]; ok {
		return dirs, nil
	}
	return nil, models.ErrNoSearchResults
}

func (d *fakeData) Route(serviceNo string, direction int) ([]string, error) {
	key := strings.ToLower(serviceNo)
	if direction == 0 {
		if route, ok := d.routes[key]; ok {
			return route, nil
		}
	}
	return nil, models.ErrNoSearchResults
}

func (d *fakeData) AllStops() []models.StopRecord {
	return d.stops
}

// ----------------------------------------------------------------------------
// fixture
// ----------------------------------------------------------------------------

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func iso(offset time.Duration) string {
	return testNow.Add(offset).Format(time.RFC3339)
}

func newTestBot() (*Bot, *fakeGateway) {
	gw := &fakeGateway{}
	live := &fakeLive{
		services: map[string][]models.ServiceArrival{
			"83139": {
				{ServiceNo: "15", NextArrival: iso(5 * time.Minute)},
				{ServiceNo: "5", NextArrival: iso(2 * time.Minute)},
			},
		},
		arrivals: map[string][]models.ArrivalEstimate{
			"83139:15": {
				{EstimatedArrival: iso(2 * time.Minute), Load: "SEA", Type: "DD"},
				{EstimatedArrival: iso(10 * time.Minute), Load: "LSD", Type: "SD"},
				{EstimatedArrival: ""},
			},
		},
	}
	data := &fakeData{
		stops: []models.StopRecord{
			{Code: "83139", Description: "Opp Blk 59", RoadName: "Marine Parade Rd", Latitude: 1.31, Longitude: 103.90},
			{Code: "83141", Description: "Blk 59", RoadName: "Marine Parade Rd", Latitude: 1.32, Longitude: 103.90},
			{Code: "01012", Description: "Hotel Grand Pacific", RoadName: "Victoria St", Latitude: 1.29, Longitude: 103.85},
		},
		directions: map[string][]models.ServiceDirection{
			"15": {
				{ServiceNo: "15", Direction: 0, DestinationCode: "01012"},
				{ServiceNo: "15", Direction: 1, DestinationCode: "83139"},
			},
		},
		routes: map[string][]string{
			"15": {"83139", "83141", "01012"},
		},
	}
	b := New(gw, live, data)
	b.now = func() time.Time { return testNow }
	return b, gw
}

func messageUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func callbackUpdate(chatID int64, tapID, token string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      tapID,
			Data:    token,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		},
	}
}

// ----------------------------------------------------------------------------
// scenarios
// ----------------------------------------------------------------------------

func TestBusStopCommandSendsPinThenSortedServices(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/busstop 83139"))

	if len(gw.locations) != 1 {
		t.Fatalf("Expected 1 location pin, got %d", len(gw.locations))
	}
	if gw.locations[0].lat != 1.31 || gw.locations[0].lon != 103.90 {
		t.Errorf("Wrong pin coordinates: %+v", gw.locations[0])
	}
	if len(gw.order) < 2 || gw.order[0] != "location" || gw.order[1] != "buttons" {
		t.Errorf("Expected pin before buttons, got order %v", gw.order)
	}

	if len(gw.buttons) != 1 {
		t.Fatalf("Expected 1 button message, got %d", len(gw.buttons))
	}
	grid := gw.buttons[0].grid
	if len(grid) != 2 {
		t.Fatalf("Expected 2 service buttons, got %d", len(grid))
	}
	// Numeric order: 5 before 15
	if grid[0][0].Label != "5 - 2 min" {
		t.Errorf("First button label: got %q, want %q", grid[0][0].Label, "5 - 2 min")
	}
	if grid[1][0].Label != "15 - 5 min" {
		t.Errorf("Second button label: got %q, want %q", grid[1][0].Label, "15 - 5 min")
	}
	if grid[0][0].Token != "83139:5:0" || grid[1][0].Token != "83139:15:0" {
		t.Errorf("Unexpected tokens: %q, %q", grid[0][0].Token, grid[1][0].Token)
	}
}

func TestStopServiceTapShowsArrivalsWithRefresh(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(callbackUpdate(1, "tap-1", "83139:15:0"))

	if len(gw.acks) != 1 || gw.acks[0] != "tap-1" {
		t.Errorf("Expected tap acknowledged, got %v", gw.acks)
	}
	if len(gw.locations) != 0 {
		t.Error("Flag 0 must not resend the location pin")
	}
	if len(gw.buttons) != 1 {
		t.Fatalf("Expected 1 reply, got %d", len(gw.buttons))
	}

	reply := gw.buttons[0]
	// Two renderable arrivals, the empty third one is skipped
	if got := strings.Count(reply.text, "min"); got < 1 {
		t.Errorf("Expected timing blocks in reply, got %q", reply.text)
	}
	if !strings.Contains(reply.text, "Seats available") || !strings.Contains(reply.text, "Double deck") {
		t.Errorf("Expected load and vehicle descriptions, got %q", reply.text)
	}
	if !strings.Contains(reply.text, "Limited standing") {
		t.Errorf("Expected second arrival rendered, got %q", reply.text)
	}

	if len(reply.grid) != 1 || len(reply.grid[0]) != 1 {
		t.Fatalf("Expected single Refresh button, got %+v", reply.grid)
	}
	if reply.grid[0][0].Token != "83139:15:0" {
		t.Errorf("Refresh token: got %q, want 83139:15:0", reply.grid[0][0].Token)
	}
}

func TestResendMapFlagSendsPinFirst(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(callbackUpdate(1, "tap-2", "83139:15:1"))

	if len(gw.locations) != 1 {
		t.Fatalf("Flag 1 must resend the location pin, got %d pins", len(gw.locations))
	}
	if gw.order[0] != "location" {
		t.Errorf("Pin must come before arrivals, order %v", gw.order)
	}
	// Refresh always forces the flag back to 0
	if got := gw.buttons[0].grid[0][0].Token; got != "83139:15:0" {
		t.Errorf("Refresh token: got %q, want 83139:15:0", got)
	}
}

func TestBusCommandThenRouteTap(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/bus 15"))

	if len(gw.buttons) != 1 {
		t.Fatalf("Expected direction buttons, got %d messages", len(gw.buttons))
	}
	dirGrid := gw.buttons[0].grid
	if len(dirGrid) != 2 {
		t.Fatalf("Expected 2 directions, got %d", len(dirGrid))
	}
	if dirGrid[0][0].Token != "15|0" || dirGrid[1][0].Token != "15|1" {
		t.Errorf("Direction tokens: %q, %q", dirGrid[0][0].Token, dirGrid[1][0].Token)
	}
	if dirGrid[0][0].Label != "To Hotel Grand Pacific" {
		t.Errorf("Direction label: got %q", dirGrid[0][0].Label)
	}

	b.HandleUpdate(callbackUpdate(1, "tap-3", "15|0"))

	if len(gw.buttons) != 2 {
		t.Fatalf("Expected route reply, got %d messages", len(gw.buttons))
	}
	routeGrid := gw.buttons[1].grid
	want := []string{"83139:15:1", "83141:15:1", "01012:15:1"}
	if len(routeGrid) != len(want) {
		t.Fatalf("Expected %d route stops, got %d", len(want), len(routeGrid))
	}
	for i, token := range want {
		if routeGrid[i][0].Token != token {
			t.Errorf("Route button %d: got %q, want %q", i, routeGrid[i][0].Token, token)
		}
	}
	if routeGrid[0][0].Label != "Opp Blk 59" {
		t.Errorf("Route button label: got %q", routeGrid[0][0].Label)
	}
}

func TestFreeTextReplyConsumesPendingState(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/busstop"))
	if b.states.Get(1) != StateAwaitingStopQuery {
		t.Fatal("Expected pending stop query state")
	}
	if len(gw.texts) != 1 || !strings.Contains(gw.texts[0].text, "bus stop code or name") {
		t.Fatalf("Expected prompt, got %+v", gw.texts)
	}

	// The reply is treated as the argument list to /busstop
	b.HandleUpdate(messageUpdate(1, "83139"))

	if len(gw.locations) != 1 || len(gw.buttons) != 1 {
		t.Errorf("Expected services listing from free-text reply, got %d pins %d button messages",
			len(gw.locations), len(gw.buttons))
	}
	if b.states.Get(1) != StateNone {
		t.Error("Expected state cleared after consumption")
	}
}

func TestFreeTextReplyClearsStateOnFailureToo(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/busstop"))
	b.HandleUpdate(messageUpdate(1, "nowhere that exists"))

	if b.states.Get(1) != StateNone {
		t.Error("Expected state cleared even when the search fails")
	}
	// Scenario 5: the literal no-results message reaches the user
	last := gw.texts[len(gw.texts)-1]
	if last.text != "No bus stops found. Try another search query." {
		t.Errorf("Expected no-results message, got %q", last.text)
	}
}

func TestNewCommandOverridesPendingState(t *testing.T) {
	b, _ := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/busstop"))
	b.HandleUpdate(messageUpdate(1, "/bus"))

	if b.states.Get(1) != StateAwaitingServiceQuery {
		t.Error("A new command must replace the pending state")
	}
}

func TestInvalidCommandSurfacesToUser(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(messageUpdate(1, "/frobnicate"))

	if len(gw.texts) != 1 || gw.texts[0].text != "Invalid command 😯" {
		t.Errorf("Expected invalid command message, got %+v", gw.texts)
	}
}

func TestNonTextMessageSurfacesFeedback(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(tgbotapi.Update{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
	})

	if len(gw.texts) != 1 || gw.texts[0].text != "Sorry, I can only understand text :(" {
		t.Errorf("Expected text-only feedback, got %+v", gw.texts)
	}
}

func TestSharedLocationListsNearestStops(t *testing.T) {
	b, gw := newTestBot()

	b.states.Set(1, StateAwaitingServiceQuery)
	b.HandleUpdate(tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat:     &tgbotapi.Chat{ID: 1},
			Location: &tgbotapi.Location{Latitude: 1.29, Longitude: 103.85},
		},
	})

	if b.states.Get(1) != StateNone {
		t.Error("A shared location must clear the pending state")
	}
	if len(gw.buttons) != 1 {
		t.Fatalf("Expected nearest-stop buttons, got %d messages", len(gw.buttons))
	}
	grid := gw.buttons[0].grid
	if len(grid) != 3 {
		t.Fatalf("Expected all 3 stops (k > dataset), got %d", len(grid))
	}
	// Closest stop is the one at the query point
	if grid[0][0].Token != "01012" {
		t.Errorf("Expected closest stop first, got token %q", grid[0][0].Token)
	}
}

func TestInvalidCallbackDataReported(t *testing.T) {
	b, gw := newTestBot()

	b.HandleUpdate(callbackUpdate(1, "tap-9", "garbage-token"))

	// Tap still acknowledged, error still reported
	if len(gw.acks) != 1 {
		t.Error("Expected tap acknowledged despite bad token")
	}
	if len(gw.texts) != 1 || !strings.Contains(gw.texts[0].text, "Invalid callback data") {
		t.Errorf("Expected invalid callback message, got %+v", gw.texts)
	}
}

func TestServiceSortOrder(t *testing.T) {
	services := []models.ServiceArrival{
		{ServiceNo: "12"}, {ServiceNo: "5"}, {ServiceNo: "183"},
	}
	sortServices(services)

	want := []string{"5", "12", "183"}
	for i, w := range want {
		if services[i].ServiceNo != w {
			t.Errorf("Position %d: got %q, want %q", i, services[i].ServiceNo, w)
		}
	}
}
