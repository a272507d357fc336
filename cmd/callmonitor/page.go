package main

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Call monitor</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #fafafa; }
.session { background: #fff; border: 1px solid #ddd; border-radius: 6px; margin-bottom: 1em; padding: 0.8em; }
.session h3 { margin: 0 0 0.5em; font-size: 0.9em; color: #666; }
.caller { color: #1a5fb4; }
.agent { color: #26a269; }
.state { color: #999; font-size: 0.8em; }
.appt { font-weight: bold; color: #c64600; }
</style>
</head>
<body>
<h1>Call monitor</h1>
<div id="sessions"></div>
<script>
const sessions = {};
function box(id) {
  if (!sessions[id]) {
    const el = document.createElement("div");
    el.className = "session";
    el.innerHTML = "<h3></h3>";
    el.querySelector("h3").textContent = id;
    document.getElementById("sessions").prepend(el);
    sessions[id] = el;
  }
  return sessions[id];
}
function line(el, cls, text) {
  const p = document.createElement("div");
  p.className = cls;
  p.textContent = text;
  el.appendChild(p);
}
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
  const ev = JSON.parse(msg.data);
  const p = ev.payload;
  const el = box(ev.sessionId);
  if (ev.eventType === "conversation.turn") {
    line(el, "caller", "caller: " + p.userText);
    line(el, "agent", "agent: " + p.reply);
    line(el, "state", p.stateBefore + " -> " + p.stateAfter);
  } else {
    const a = p.appointment;
    line(el, "appt", ev.eventType + " " + a.id + " " + a.patientName + " / " + a.doctor + " / " + a.date + " " + a.time);
  }
};
</script>
</body>
</html>
`
