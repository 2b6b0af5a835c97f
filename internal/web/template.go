package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
	"github.com/sweeney/pet-feeder/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"led": func(lit bool) string {
		if lit {
			return "lit"
		}
		return "dark"
	},
	"satietyClass": func(s logic.Satiety) string {
		if s == logic.Full {
			return "full"
		}
		return "hungry"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Pet Feeder</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.full { color: green; font-weight: bold; }
.hungry { color: #c60; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; vertical-align: middle; border: 1px solid #888; }
.dot.lit { background: gold; }
.dot.dark { background: #333; }
</style>
</head>
<body>
<h1>Pet Feeder</h1>

<h2>State</h2>
<table>
<tr><th>Satiety</th><td id="satiety" class="{{satietyClass .State.Satiety}}">{{.State.Satiety}}</td></tr>
<tr><th>Period</th><td id="period">{{.State.Period}}</td></tr>
<tr><th>Since last change</th><td id="elapsed">{{.Elapsed}}</td></tr>
<tr><th>Hungry again after</th><td>{{.Config.FeedHours}}h {{.Config.FeedMinutes}}m</td></tr>
</table>

<h2>Indicators</h2>
<table>
<tr><th>AM fed</th><td><span class="dot {{led .Indicators.AMFed}}"></span>{{led .Indicators.AMFed}}</td></tr>
<tr><th>AM hungry</th><td><span class="dot {{led .Indicators.AMHungry}}"></span>{{led .Indicators.AMHungry}}</td></tr>
<tr><th>PM fed</th><td><span class="dot {{led .Indicators.PMFed}}"></span>{{led .Indicators.PMFed}}</td></tr>
<tr><th>PM hungry</th><td><span class="dot {{led .Indicators.PMHungry}}"></span>{{led .Indicators.PMHungry}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Fed AM</th><td>{{.Counts.FedAM}}</td></tr>
<tr><th>Fed PM</th><td>{{.Counts.FedPM}}</td></tr>
<tr><th>Timeouts</th><td>{{.Counts.Timeouts}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Boot ID</th><td>{{.BootID}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Backend</th><td>{{.Config.Backend}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Blink</th><td>{{.Config.BlinkMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
