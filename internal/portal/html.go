// internal/portal/html.go
package portal

// indexHTML is the portal's single page. It renders from the JSON API
// only; the table grows to whatever register count the device reports.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Modbus Slave Config</title>
<style>
body{font-family:Arial;margin:20px;background:#f0f0f0}
.container{max-width:600px;margin:auto;background:white;padding:20px;border-radius:8px}
h1{color:#333;border-bottom:2px solid #4CAF50;padding-bottom:10px}
.stat{display:flex;justify-content:space-between;padding:8px;margin:4px 0;background:#f9f9f9;border-radius:4px}
.label{font-weight:bold;color:#555}
.value{color:#4CAF50;font-weight:bold}
table{width:100%;border-collapse:collapse;margin:10px 0}
th,td{padding:6px;border:1px solid #ddd;text-align:left}
th{background:#4CAF50;color:white}
input[type=number]{width:100%;padding:8px;margin:8px 0;border:1px solid #ddd;border-radius:4px}
button{background:#4CAF50;color:white;padding:10px 20px;border:none;border-radius:4px;cursor:pointer;width:100%}
.info{background:#e7f3fe;border-left:4px solid #2196F3;padding:10px;margin:10px 0}
</style>
</head>
<body><div class="container">
<h1>Modbus RTU Slave</h1>
<div class="info">The configuration portal closes automatically after the boot window.</div>
<h2>Statistics</h2>
<div class="stat"><span class="label">Total Requests</span><span class="value" id="total">-</span></div>
<div class="stat"><span class="label">Read Requests</span><span class="value" id="reads">-</span></div>
<div class="stat"><span class="label">Write Requests</span><span class="value" id="writes">-</span></div>
<div class="stat"><span class="label">Errors</span><span class="value" id="errors">-</span></div>
<div class="stat"><span class="label">Uptime</span><span class="value" id="uptime">-</span></div>
<div class="stat"><span class="label">Slave ID</span><span class="value" id="slave">-</span></div>
<h2>Holding Registers</h2>
<table><thead><tr><th>Address</th><th>Decimal</th><th>Hex</th></tr></thead><tbody id="regs"></tbody></table>
<h2>Configuration</h2>
<form id="cfg">
<label>Modbus Slave ID (1-247):</label>
<input type="number" id="slave_id" min="1" max="247" required>
<button type="submit">Save &amp; Apply</button>
</form>
<script>
function refresh(){
fetch('/api/stats').then(r=>r.json()).then(d=>{
for(const k of ['total','reads','writes','errors'])document.getElementById(k).textContent=d[k];
document.getElementById('uptime').textContent=d.uptime+'s';
document.getElementById('slave').textContent=d.slave_id;
});
fetch('/api/registers').then(r=>r.json()).then(d=>{
document.getElementById('regs').innerHTML=d.registers.map((v,i)=>
'<tr><td>'+i+'</td><td>'+v+'</td><td>0x'+v.toString(16).toUpperCase().padStart(4,'0')+'</td></tr>').join('');
});
}
refresh();setInterval(refresh,2000);
document.getElementById('cfg').addEventListener('submit',function(e){
e.preventDefault();
fetch('/api/config?slave_id='+document.getElementById('slave_id').value,{method:'POST'})
.then(r=>r.json()).then(d=>alert(d.message));
});
</script>
</div></body></html>
`
