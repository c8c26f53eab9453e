// Package fixtures holds shared test data for the pipeline.
package fixtures

import (
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
	"github.com/prasetyadi/graphmail-pipeline/internal/models"
)

// SampleMessageJSON is a transport payload as the poller relays it. The
// sender appears under the "from" key, matching the mail API's resource
// shape.
const SampleMessageJSON = `{
  "id": "AAMkAGI2TG93AAA=",
  "createdDateTime": "2025-06-02T08:31:35Z",
  "lastModifiedDateTime": "2025-06-02T08:31:36Z",
  "changeKey": "CQAAABYAAAAiIsqMbYjsT5e/T7KzowPTAAAAAAEH",
  "categories": [],
  "receivedDateTime": "2025-06-02T08:31:35Z",
  "sentDateTime": "2025-06-02T08:31:30Z",
  "hasAttachments": true,
  "internetMessageId": "<invoice-1042@vendor.example>",
  "subject": "Invoice 1042",
  "bodyPreview": "Please find the invoice attached.",
  "importance": "normal",
  "parentFolderId": "AQMkAGI2AAAAIBDAAAA",
  "conversationId": "AAQkAGI2TG93AAA=",
  "conversationIndex": "AQHV0o9i",
  "isDeliveryReceiptRequested": null,
  "isReadReceiptRequested": false,
  "isRead": false,
  "isDraft": false,
  "webLink": "https://outlook.example.com/owa/?ItemID=AAMkAGI2TG93AAA%3D",
  "inferenceClassification": "focused",
  "body": {
    "contentType": "html",
    "content": "<html><body>Please find the invoice attached.</body></html>"
  },
  "sender": {
    "emailAddress": {"name": "Vendor Billing", "address": "billing@vendor.example"}
  },
  "from": {
    "emailAddress": {"name": "Vendor Billing", "address": "billing@vendor.example"}
  },
  "toRecipients": [
    {"emailAddress": {"name": "Inbox", "address": "inbox@company.example"}}
  ],
  "ccRecipients": [],
  "bccRecipients": [],
  "replyTo": [],
  "flag": {"flagStatus": "notFlagged"}
}`

// SampleMessage returns a message matching SampleMessageJSON
func SampleMessage() *graph.Message {
	return &graph.Message{
		ID:               "AAMkAGI2TG93AAA=",
		ReceivedDateTime: "2025-06-02T08:31:35Z",
		HasAttachments:   true,
		Subject:          "Invoice 1042",
		From: graph.Recipient{
			EmailAddress: graph.EmailAddress{Name: "Vendor Billing", Address: "billing@vendor.example"},
		},
	}
}

// SampleFileAttachment returns an inline-content file attachment
func SampleFileAttachment(id, name string) graph.FileAttachment {
	return graph.FileAttachment{
		ODataType:    "#microsoft.graph.fileAttachment",
		ID:           id,
		Name:         name,
		Size:         2048,
		ContentBytes: "aGVsbG8gd29ybGQ=", // "hello world"
	}
}

// SampleRecord returns a processed but unreported ledger record
func SampleRecord(messageID, attachmentID string, processedAt time.Time) models.AttachmentRecord {
	return models.AttachmentRecord{
		MessageID:      messageID,
		AttachmentID:   attachmentID,
		Subject:        "Invoice 1042",
		Sender:         "billing@vendor.example",
		ReceivedAt:     "2025-06-02T08:31:35Z",
		AttachmentName: "invoice.pdf",
		Extension:      ".pdf",
		SizeBytes:      2048,
		SiteName:       "finance",
		FilePath:       "/Attachments/invoice.pdf",
		ProcessedAt:    processedAt,
		IsReported:     false,
	}
}
