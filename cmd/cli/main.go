package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	appdb "github.com/yourorg/sgbusbot/internal/db"
)

const datamallBase = "https://datamall2.mytransport.sg/ltaodataservice"

// DataMall pages results 500 at a time via $skip.
const datamallPageSize = 500

var httpClient = &http.Client{Timeout: 30 * time.Second}

func main() {
	_ = godotenv.Load()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== SG Bus Bot CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Import static dataset from DataMall")
		fmt.Println("3) Set Telegram webhook")
		fmt.Println("4) Set Telegram command menu")
		fmt.Println("5) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doImportDataset()
		case "3":
			doSetWebhook()
		case "4":
			doSetCommands()
		case "5":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

// ============================================================================
// DATASET IMPORT - BusStops / BusServices / BusRoutes
// ============================================================================

func doImportDataset() {
	accountKey := os.Getenv("LTA_ACCOUNT_KEY")
	if accountKey == "" {
		fmt.Println("LTA_ACCOUNT_KEY env variable is required")
		return
	}

	db, err := appdb.Connect()
	if err != nil {
		fmt.Println("db connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		fmt.Println("ensure schema error:", err)
		return
	}

	if err := importStops(db, accountKey); err != nil {
		fmt.Println("import stops error:", err)
		return
	}
	if err := importServices(db, accountKey); err != nil {
		fmt.Println("import services error:", err)
		return
	}
	if err := importRoutes(db, accountKey); err != nil {
		fmt.Println("import routes error:", err)
		return
	}
	fmt.Println("✅ Dataset imported")
}

// fetchPage retrieves one $skip page of a DataMall collection into out,
// which must point at the page's "value" slice type.
func fetchPage(accountKey, endpoint string, skip int, out interface{}) error {
	url := fmt.Sprintf("%s/%s?$skip=%d", datamallBase, endpoint, skip)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("AccountKey", accountKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("datamall %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Value, out)
}

func importStops(db *sql.DB, accountKey string) error {
	type stopRow struct {
		BusStopCode string  `json:"BusStopCode"`
		RoadName    string  `json:"RoadName"`
		Description string  `json:"Description"`
		Latitude    float64 `json:"Latitude"`
		Longitude   float64 `json:"Longitude"`
	}

	total := 0
	for skip := 0; ; skip += datamallPageSize {
		var page []stopRow
		if err := fetchPage(accountKey, "BusStops", skip, &page); err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for _, s := range page {
			_, err := db.Exec(`
				REPLACE INTO bus_stops (code, description, road_name, latitude, longitude)
				VALUES (?, ?, ?, ?, ?)`,
				s.BusStopCode, s.Description, s.RoadName, s.Latitude, s.Longitude)
			if err != nil {
				return err
			}
		}
		total += len(page)
	}
	log.Printf("🚏 Imported %d bus stops", total)
	return nil
}

func importServices(db *sql.DB, accountKey string) error {
	type serviceRow struct {
		ServiceNo     string `json:"ServiceNo"`
		Direction     int    `json:"Direction"`
		Category      string `json:"Category"`
		OriginCode    string `json:"OriginCode"`
		DestinationCode string `json:"DestinationCode"`
		AMPeakFreq    string `json:"AM_Peak_Freq"`
		AMOffpeakFreq string `json:"AM_Offpeak_Freq"`
		PMPeakFreq    string `json:"PM_Peak_Freq"`
		PMOffpeakFreq string `json:"PM_Offpeak_Freq"`
	}

	total := 0
	for skip := 0; ; skip += datamallPageSize {
		var page []serviceRow
		if err := fetchPage(accountKey, "BusServices", skip, &page); err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for _, s := range page {
			_, err := db.Exec(`
				REPLACE INTO bus_service_directions
				(service_no, direction, category, origin_code, destination_code,
				 am_peak_freq, am_offpeak_freq, pm_peak_freq, pm_offpeak_freq)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ServiceNo, s.Direction, s.Category, s.OriginCode, s.DestinationCode,
				s.AMPeakFreq, s.AMOffpeakFreq, s.PMPeakFreq, s.PMOffpeakFreq)
			if err != nil {
				return err
			}
		}
		total += len(page)
	}
	log.Printf("🚌 Imported %d service directions", total)
	return nil
}

func importRoutes(db *sql.DB, accountKey string) error {
	type routeRow struct {
		ServiceNo    string `json:"ServiceNo"`
		Direction    int    `json:"Direction"`
		StopSequence int    `json:"StopSequence"`
		BusStopCode  string `json:"BusStopCode"`
	}

	total := 0
	for skip := 0; ; skip += datamallPageSize {
		var page []routeRow
		if err := fetchPage(accountKey, "BusRoutes", skip, &page); err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			_, err := db.Exec(`
				REPLACE INTO bus_route_stops (service_no, direction, stop_sequence, stop_code)
				VALUES (?, ?, ?, ?)`,
				r.ServiceNo, r.Direction, r.StopSequence, r.BusStopCode)
			if err != nil {
				return err
			}
		}
		total += len(page)
	}
	log.Printf("🗺️  Imported %d route entries", total)
	return nil
}

// ============================================================================
// TELEGRAM SETUP
// ============================================================================

func telegramAPI() (*tgbotapi.BotAPI, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN env variable is required")
	}
	return tgbotapi.NewBotAPI(token)
}

func doSetWebhook() {
	api, err := telegramAPI()
	if err != nil {
		fmt.Println("telegram error:", err)
		return
	}

	base := os.Getenv("URL")
	if os.Getenv("MODE") != "prod" && os.Getenv("URL_DEV") != "" {
		base = os.Getenv("URL_DEV")
	}
	if base == "" {
		fmt.Println("URL (or URL_DEV) env variable is required")
		return
	}

	wh, err := tgbotapi.NewWebhook(strings.TrimRight(base, "/") + "/webhook")
	if err != nil {
		fmt.Println("webhook config error:", err)
		return
	}
	if _, err := api.Request(wh); err != nil {
		fmt.Println("set webhook error:", err)
		return
	}
	fmt.Println("✅ Webhook set to", strings.TrimRight(base, "/")+"/webhook")
}

func doSetCommands() {
	api, err := telegramAPI()
	if err != nil {
		fmt.Println("telegram error:", err)
		return
	}

	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "busstop", Description: "Bus services at a stop"},
		tgbotapi.BotCommand{Command: "bus", Description: "Routes of a bus service"},
		tgbotapi.BotCommand{Command: "help", Description: "How to use this bot"},
	)
	if _, err := api.Request(cfg); err != nil {
		fmt.Println("set commands error:", err)
		return
	}
	fmt.Println("✅ Command menu set")
}
