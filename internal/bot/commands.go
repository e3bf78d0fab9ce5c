package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourorg/sgbusbot/internal/locator"
	"github.com/yourorg/sgbusbot/internal/models"
	"github.com/yourorg/sgbusbot/internal/validation"
)

const helpText = `Hello! I can tell you when your bus is coming 🚌

<b>Commands</b>
/busstop &lt;code or name&gt; - bus services at a stop
/bus &lt;service number&gt; - routes of a bus service
/help - show this message

You can also send me your <u>location</u> to find the stops nearest to you.`

func (b *Bot) handleCommand(chatID int64, word string, args []string) error {
	switch word {
	case "start", "help":
		return b.gateway.SendText(chatID, helpText)
	case "busstop":
		return b.busStop(chatID, args)
	case "bus":
		return b.bus(chatID, args)
	default:
		return models.ErrInvalidCommand
	}
}

// busStop resolves its arguments to a stop: a bare 5-digit code goes straight
// to the services listing, anything else is a description search.
func (b *Bot) busStop(chatID int64, args []string) error {
	if len(args) == 0 {
		b.states.Set(chatID, StateAwaitingStopQuery)
		return b.gateway.SendText(chatID, "Please send me a bus stop code or name 🚏")
	}

	if len(args) == 1 && IsStopCode(args[0]) {
		return b.sendServicesForStop(chatID, args[0])
	}

	phrase := strings.ToLower(strings.Join(args, " "))
	stops, err := b.data.SearchStopsByDescription(phrase)
	if err != nil {
		return err
	}

	if len(stops) == 1 {
		return b.sendServicesForStop(chatID, stops[0].Code)
	}

	grid := make([][]Button, 0, len(stops))
	for _, s := range stops {
		grid = append(grid, []Button{{
			Label: fmt.Sprintf("%s (%s)", s.Description, s.RoadName),
			Token: StopAction{StopCode: s.Code}.Token(),
		}})
	}
	return b.gateway.SendButtons(chatID, "Which bus stop do you mean?", grid)
}

// bus lists the directions of a service, one button per direction labeled
// with the destination stop.
func (b *Bot) bus(chatID int64, args []string) error {
	if len(args) == 0 {
		b.states.Set(chatID, StateAwaitingServiceQuery)
		return b.gateway.SendText(chatID, "Please send me a bus service number 🚌")
	}

	serviceNo := args[0]
	directions, err := b.data.Directions(serviceNo)
	if err != nil {
		return err
	}

	grid := make([][]Button, 0, len(directions))
	for _, d := range directions {
		label := "To " + d.DestinationCode
		if dest, err := b.data.StopByCode(d.DestinationCode); err == nil {
			label = "To " + dest.Description
		}
		grid = append(grid, []Button{{
			Label: label,
			Token: RouteAction{ServiceNo: d.ServiceNo, Direction: d.Direction}.Token(),
		}})
	}
	text := fmt.Sprintf("Bus <b>%s</b> - choose a direction:", directions[0].ServiceNo)
	return b.gateway.SendButtons(chatID, text, grid)
}

// sendServicesForStop sends the stop's map pin followed by one button per
// service, ordered by service number, labeled with the wait for its next bus.
func (b *Bot) sendServicesForStop(chatID int64, code string) error {
	services, err := b.live.ServicesAtStop(code)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return models.ErrNoMoreBuses
	}

	sortServices(services)

	stop, err := b.data.StopByCode(code)
	if err != nil {
		return err
	}
	if err := b.gateway.SendLocation(chatID, stop.Latitude, stop.Longitude); err != nil {
		return err
	}

	now := b.now()
	grid := make([][]Button, 0, len(services))
	for _, svc := range services {
		wait := FormatTimeUntil(svc.NextArrival, now)
		label := svc.ServiceNo
		if wait != "" {
			label = fmt.Sprintf("%s - %s", svc.ServiceNo, wait)
		}
		grid = append(grid, []Button{{
			Label: label,
			Token: StopServiceAction{StopCode: code, ServiceNo: svc.ServiceNo}.Token(),
		}})
	}

	text := fmt.Sprintf("<b>%s</b> (%s)\nSelect a bus service:", stop.Description, stop.RoadName)
	return b.gateway.SendButtons(chatID, text, grid)
}

// handleLocation answers a shared location with the nearest stops, one
// service-selection button per stop.
func (b *Bot) handleLocation(chatID int64, latitude, longitude float64) error {
	if err := validation.ValidatePoint(latitude, longitude); err != nil {
		return err
	}

	nearest := locator.Nearest(b.data.AllStops(), latitude, longitude, nearbyStopCount)
	if len(nearest) == 0 {
		return models.ErrNoStopsFound
	}

	grid := make([][]Button, 0, len(nearest))
	for _, sd := range nearest {
		grid = append(grid, []Button{{
			Label: fmt.Sprintf("%s (%.0fm)", sd.Stop.Description, sd.Meters),
			Token: StopAction{StopCode: sd.Stop.Code}.Token(),
		}})
	}
	return b.gateway.SendButtons(chatID, "Bus stops nearest to you 📍", grid)
}

// sortServices orders by service number ascending. Zero-padding the numbers
// before comparing keeps lexical and numeric order in agreement ("5" before
// "12") while letter suffixes still sort after their base number.
func sortServices(services []models.ServiceArrival) {
	sort.SliceStable(services, func(i, j int) bool {
		return padServiceNo(services[i].ServiceNo) < padServiceNo(services[j].ServiceNo)
	})
}

func padServiceNo(s string) string {
	const width = 5
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
