package http

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

type capturePageData struct {
	Phone string
}

var capturePageTmpl = template.Must(template.New("capture").Parse(capturePageHTML))
var latestPageTmpl = template.Must(template.New("latest").Parse(latestPageHTML))

func renderCapturePage(c echo.Context, data capturePageData) error {
	var buf bytes.Buffer
	if err := capturePageTmpl.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func renderLatestPage(c echo.Context) error {
	var buf bytes.Buffer
	if err := latestPageTmpl.Execute(&buf, nil); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

const capturePageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Share Location</title>
  <style>body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;padding:16px;} .card{padding:12px;border:1px solid #eee;border-radius:8px;margin-bottom:12px;}</style>
</head>
<body>
  <h2>Share your location</h2>
  <div id="status" class="card">Requesting location permission...</div>
  <script>
    const phone = {{.Phone}};
    const status = document.getElementById('status');

    fetch('/iplog', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({phone: phone, ts: Date.now()})
    }).catch(() => {});

    function report(pos) {
      const payload = {
        lat: pos.coords.latitude,
        lon: pos.coords.longitude,
        accuracy: pos.coords.accuracy,
        ts: Date.now(),
        deviceInfo: navigator.userAgent,
        phone: phone
      };
      fetch('/loc', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify(payload)
      }).then(res => {
        status.textContent = res.ok ? 'Location shared. Thank you!' : 'Could not share location.';
      }).catch(() => {
        status.textContent = 'Could not share location.';
      });
    }

    function fail() {
      status.textContent = 'Location permission denied.';
    }

    if (navigator.geolocation) {
      navigator.geolocation.getCurrentPosition(report, fail, {enableHighAccuracy: true, timeout: 10000});
    } else {
      status.textContent = 'Geolocation is not supported by this browser.';
    }
  </script>
</body>
</html>
`

const latestPageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Latest Location</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" crossorigin="" />
  <style>body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;padding:16px;} #map{height:60vh;border:1px solid #ddd;border-radius:8px;} .card{padding:12px;border:1px solid #eee;border-radius:8px;margin-bottom:12px;} code{background:#f6f8fa;padding:2px 4px;border-radius:4px;}</style>
</head>
<body>
  <h2>Latest Location</h2>
  <div id="info" class="card">Loading...</div>
  <div id="map"></div>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" crossorigin=""></script>
  <script>
    const info = document.getElementById('info');

    async function fetchLatest() {
      const res = await fetch('/latest.json');
      if (!res.ok) { return null; }
      return res.json();
    }

    function render(latest) {
      if (!latest || latest.latitude === null || latest.latitude === undefined) {
        info.textContent = 'No data yet.';
        return;
      }
      info.innerHTML = '<div><strong>Name:</strong> ' + (latest.name || 'n/a') + '</div>' +
        '<div><strong>Phone:</strong> ' + (latest.phone || 'n/a') + '</div>' +
        '<div><strong>Lat:</strong> ' + latest.latitude + ' <strong>Lon:</strong> ' + latest.longitude +
        ' <strong>Accuracy:</strong> ' + (latest.accuracy || 'n/a') + 'm</div>' +
        '<div><strong>Received:</strong> ' + latest.received_at + ' <strong>Source:</strong> ' + latest.source + '</div>' +
        '<div><strong>IP:</strong> ' + (latest.source_ip || '') + ' <strong>UA:</strong> <code>' + (latest.user_agent || '').slice(0, 120) + '</code></div>';

      const map = L.map('map').setView([latest.latitude, latest.longitude], 15);
      L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
        maxZoom: 19,
        attribution: '&copy; OpenStreetMap contributors'
      }).addTo(map);
      const m = L.marker([latest.latitude, latest.longitude]).addTo(map);
      m.bindPopup('Latest location').openPopup();
      if (latest.accuracy) {
        L.circle([latest.latitude, latest.longitude], {radius: latest.accuracy, color: '#2a7', fillOpacity: 0.15}).addTo(map);
      }
    }

    fetchLatest().then(render).catch(() => { info.textContent = 'No data yet.'; });
  </script>
</body>
</html>
`
