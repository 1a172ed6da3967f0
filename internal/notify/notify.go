// Package notify publishes bid lifecycle notifications to vendors. The
// current implementation writes structured log records; a real delivery
// channel can be swapped in behind the same interface.
package notify

import "log/slog"

type Notifier interface {
	BidShortlisted(eventId string, bidId string, vendorId string, position int, message string)
	BidRejected(eventId string, bidId string, vendorId string)
	BidRevised(eventId string, originalBidId string, revisionBidId string)
	WinnerSelected(eventId string, bidId string, vendorId string)
}

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BidShortlisted(eventId string, bidId string, vendorId string, position int, message string) {
	n.log.Info("bid shortlisted",
		"event_id", eventId,
		"bid_id", bidId,
		"vendor_id", vendorId,
		"position", position,
		"message", message)
}

func (n *LogNotifier) BidRejected(eventId string, bidId string, vendorId string) {
	n.log.Info("bid rejected",
		"event_id", eventId,
		"bid_id", bidId,
		"vendor_id", vendorId)
}

func (n *LogNotifier) BidRevised(eventId string, originalBidId string, revisionBidId string) {
	n.log.Info("bid revised",
		"event_id", eventId,
		"original_bid_id", originalBidId,
		"revision_bid_id", revisionBidId)
}

func (n *LogNotifier) WinnerSelected(eventId string, bidId string, vendorId string) {
	n.log.Info("winner selected",
		"event_id", eventId,
		"bid_id", bidId,
		"vendor_id", vendorId)
}
