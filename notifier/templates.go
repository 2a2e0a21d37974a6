package notifier

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	TemplateWelcome                 = "welcome"
	TemplatePaymentReminder         = "paymentReminder"
	TemplatePaymentConfirmed        = "paymentConfirmed"
	TemplateInstallationScheduled   = "installationScheduled"
	TemplateSupportTicketUpdate     = "supportTicketUpdate"
	TemplateMaintenanceNotification = "maintenanceNotification"
	TemplateCustom                  = "custom"
)

// Rendered is a ready-to-send message.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

type emailTemplate struct {
	subject string
	body    string // html fragment placed inside the layout
	text    string
}

const layout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">SEKAR NET</h1>
  </div>
  <div style="padding: 20px;">{{template "body" .}}</div>
</div>`

var templates = map[string]emailTemplate{
	TemplateWelcome: {
		subject: "Selamat Datang di SEKAR NET",
		body: `<h2>Selamat Datang, {{.fullName}}!</h2>
<p>Terima kasih telah mendaftar di SEKAR NET. Akun Anda telah berhasil dibuat.</p>
<p><strong>Username:</strong> {{.username}}</p>
<p><strong>Email:</strong> {{.email}}</p>
<p>Jika Anda memiliki pertanyaan, silakan hubungi tim support kami.</p>`,
		text: "Selamat Datang di SEKAR NET\n\nHalo {{.fullName}},\n\nTerima kasih telah mendaftar di SEKAR NET. Akun Anda telah berhasil dibuat.\n\nUsername: {{.username}}\nEmail: {{.email}}\n",
	},
	TemplatePaymentReminder: {
		subject: "Pengingat Pembayaran - SEKAR NET",
		body: `<h2>Pengingat Pembayaran</h2>
<p>Halo {{.customerName}},</p>
<p>Tagihan Anda untuk periode <strong>{{.period}}</strong> jatuh tempo pada <strong>{{.dueDate}}</strong>.</p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p>Nomor Tagihan: {{.billNumber}}</p>
  <p>Jumlah: {{.amount}}</p>
</div>
<p>Silakan lakukan pembayaran melalui QRIS untuk menghindari pemutusan layanan.</p>`,
		text: "Pengingat Pembayaran - SEKAR NET\n\nHalo {{.customerName}},\n\nTagihan {{.billNumber}} periode {{.period}} sebesar {{.amount}} jatuh tempo pada {{.dueDate}}.\n\nSilakan lakukan pembayaran melalui QRIS untuk menghindari pemutusan layanan.",
	},
	TemplatePaymentConfirmed: {
		subject: "Pembayaran Diterima - SEKAR NET",
		body: `<h2>Pembayaran Diterima</h2>
<p>Halo {{.customerName}},</p>
<p>Pembayaran tagihan <strong>{{.billNumber}}</strong> periode {{.period}} sebesar {{.amount}} telah kami konfirmasi.</p>
<p>Terima kasih telah menggunakan SEKAR NET.</p>`,
		text: "Pembayaran Diterima - SEKAR NET\n\nHalo {{.customerName}},\n\nPembayaran tagihan {{.billNumber}} periode {{.period}} sebesar {{.amount}} telah kami konfirmasi.\n\nTerima kasih telah menggunakan SEKAR NET.",
	},
	TemplateInstallationScheduled: {
		subject: "Instalasi Dijadwalkan - SEKAR NET",
		body: `<h2>Instalasi Dijadwalkan</h2>
<p>Halo {{.customerName}},</p>
<p>Permintaan instalasi internet Anda telah dijadwalkan.</p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p>Tanggal: {{.scheduledDate}}</p>
  <p>Alamat: {{.address}}</p>
  <p>Paket: {{.packageName}}</p>
  <p>Teknisi: {{.technicianName}}</p>
</div>
<p>Mohon pastikan ada orang di rumah pada waktu yang dijadwalkan.</p>`,
		text: "SEKAR NET: Instalasi dijadwalkan pada {{.scheduledDate}}. Teknisi: {{.technicianName}}. Mohon pastikan ada orang di rumah.",
	},
	TemplateSupportTicketUpdate: {
		subject: "Update Tiket Support - SEKAR NET",
		body: `<h2>Update Tiket Support</h2>
<p>Halo {{.customerName}},</p>
<p>Tiket support Anda telah diperbarui.</p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 15px 0;">
  <p>ID Tiket: #{{.ticketId}}</p>
  <p>Subjek: {{.subject}}</p>
  <p>Status: {{.status}}</p>
  <p>Update: {{.update}}</p>
</div>`,
		text: "Update Tiket Support - SEKAR NET\n\nHalo {{.customerName}},\n\nID Tiket: #{{.ticketId}}\nSubjek: {{.subject}}\nStatus: {{.status}}\nUpdate: {{.update}}",
	},
	TemplateMaintenanceNotification: {
		subject: "Pemeliharaan Sistem - SEKAR NET",
		body: `<h2>{{.title}}</h2>
<p>Halo {{.customerName}},</p>
<p>{{.message}}</p>
<p>Mohon maaf atas ketidaknyamanannya.</p>`,
		text: "Pemeliharaan Sistem - SEKAR NET\n\nHalo {{.customerName}},\n\n{{.title}}\n{{.message}}\n\nMohon maaf atas ketidaknyamanannya.",
	},
	TemplateCustom: {
		subject: "{{.subject}}",
		body:    `<p>{{.message}}</p>`,
		text:    "{{.message}}",
	},
}

// Render fills the template named key with data. Missing keys render empty.
func Render(key string, data map[string]interface{}) (Rendered, error) {
	tpl, ok := templates[key]
	if !ok {
		return Rendered{}, fmt.Errorf("email template %q not found", key)
	}
	fields := stringify(data)

	subject, err := renderText(key+".subject", tpl.subject, fields)
	if err != nil {
		return Rendered{}, err
	}
	text, err := renderText(key+".text", tpl.text, fields)
	if err != nil {
		return Rendered{}, err
	}

	h, err := htmltemplate.New(key).Option("missingkey=zero").Parse(layout)
	if err == nil {
		_, err = h.New("body").Parse(tpl.body)
	}
	if err != nil {
		return Rendered{}, err
	}
	var html bytes.Buffer
	if err := h.Execute(&html, fields); err != nil {
		return Rendered{}, err
	}

	return Rendered{Subject: subject, HTML: html.String(), Text: text}, nil
}

// stringify flattens values so missing keys render as "" instead of "<no value>".
func stringify(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if v == nil {
			continue
		}
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			out[k] = fmt.Sprintf("%d", int64(f))
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func renderText(name, src string, data map[string]string) (string, error) {
	t, err := texttemplate.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
