package graph

// Wire types for the Graph mail API. Field sets mirror the message resource
// as returned by the messages endpoint; timestamps stay as the API's ISO-8601
// strings so a relayed message re-serializes byte-for-byte equivalent.

// EmailAddress is a display name and address pair
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Recipient wraps an EmailAddress
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// Body is a message body with its content type tag
type Body struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Flag is the follow-up flag status of a message
type Flag struct {
	FlagStatus string `json:"flagStatus"`
}

// Message is a mail item. It doubles as the transport payload the poller
// relays to the processor endpoint.
type Message struct {
	ID                         string      `json:"id"`
	CreatedDateTime            string      `json:"createdDateTime"`
	LastModifiedDateTime       string      `json:"lastModifiedDateTime"`
	ChangeKey                  string      `json:"changeKey"`
	Categories                 []string    `json:"categories"`
	ReceivedDateTime           string      `json:"receivedDateTime"`
	SentDateTime               string      `json:"sentDateTime"`
	HasAttachments             bool        `json:"hasAttachments"`
	InternetMessageID          string      `json:"internetMessageId"`
	Subject                    string      `json:"subject"`
	BodyPreview                string      `json:"bodyPreview"`
	Importance                 string      `json:"importance"`
	ParentFolderID             string      `json:"parentFolderId"`
	ConversationID             string      `json:"conversationId"`
	ConversationIndex          string      `json:"conversationIndex"`
	IsDeliveryReceiptRequested *bool       `json:"isDeliveryReceiptRequested"`
	IsReadReceiptRequested     bool        `json:"isReadReceiptRequested"`
	IsRead                     bool        `json:"isRead"`
	IsDraft                    bool        `json:"isDraft"`
	WebLink                    string      `json:"webLink"`
	InferenceClassification    string      `json:"inferenceClassification"`
	Body                       Body        `json:"body"`
	Sender                     Recipient   `json:"sender"`
	From                       Recipient   `json:"from"`
	ToRecipients               []Recipient `json:"toRecipients"`
	CcRecipients               []Recipient `json:"ccRecipients"`
	BccRecipients              []Recipient `json:"bccRecipients"`
	ReplyTo                    []Recipient `json:"replyTo"`
	Flag                       Flag        `json:"flag"`
}

// MessageList is the messages endpoint response envelope
type MessageList struct {
	ODataContext string    `json:"@odata.context"`
	Value        []Message `json:"value"`
}

// fileAttachmentType is the OData discriminator for file attachments.
// Item and reference attachments are dropped; only file attachments are
// actionable downstream.
const fileAttachmentType = "#microsoft.graph.fileAttachment"

// FileAttachment is a file attached to a message. ContentBytes holds inline
// base64 content for small attachments; larger ones come with a media read
// link instead. Neither being present is an error condition.
type FileAttachment struct {
	ODataType        string `json:"@odata.type"`
	ID               string `json:"id"`
	Name             string `json:"name"`
	Size             int64  `json:"size"`
	MediaContentType string `json:"@odata.mediaContentType,omitempty"`
	MediaReadLink    string `json:"@odata.mediaReadLink,omitempty"`
	ContentBytes     string `json:"contentBytes,omitempty"`
}

// attachmentList is the attachments endpoint response envelope
type attachmentList struct {
	Value []FileAttachment `json:"value"`
}
