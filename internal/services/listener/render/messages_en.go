package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "notification.service_availed.title", "Service Availed")
	message.SetString(lang, "notification.service_availed.body", "%s has availed your service \"%s\".")
	message.SetString(lang, "notification.service_accepted.title", "Service Accepted")
	message.SetString(lang, "notification.service_accepted.body", "%s has accepted your request for \"%s\".")
	message.SetString(lang, "notification.service_cancelled.title", "Service Cancelled")
	message.SetString(lang, "notification.service_cancelled.body", "%s has cancelled the service \"%s\".")
	message.SetString(lang, "notification.service_completed.title", "Service Completed")
	message.SetString(lang, "notification.service_completed.body", "%s has marked \"%s\" as completed.")
	message.SetString(lang, "notification.order_placed.title", "New Order")
	message.SetString(lang, "notification.order_placed.body", "%s has placed an order for \"%s\".")
	message.SetString(lang, "notification.order_confirmed.title", "Order Confirmed")
	message.SetString(lang, "notification.order_confirmed.body", "%s has confirmed your order for \"%s\".")
	message.SetString(lang, "notification.order_cancelled.title", "Order Cancelled")
	message.SetString(lang, "notification.order_cancelled.body", "%s has cancelled the order for \"%s\".")
	message.SetString(lang, "notification.order_delivered.title", "Order Delivered")
	message.SetString(lang, "notification.order_delivered.body", "%s has delivered your order for \"%s\".")
	message.SetString(lang, "notification.subscription_requested.title", "Subscription Request")
	message.SetString(lang, "notification.subscription_requested.body", "%s has requested a %d-day subscription for \"%s\".")
	message.SetString(lang, "notification.subscription_accepted.title", "Subscription Accepted")
	message.SetString(lang, "notification.subscription_accepted.body", "%s has accepted your subscription for \"%s\".")
	message.SetString(lang, "notification.listing_rejected.title", "Listing Rejected")
	message.SetString(lang, "notification.listing_rejected.body", "Your listing \"%s\" was rejected. Reason: %s")
	message.SetString(lang, "notification.listing_rejected.body_no_reason", "Your listing \"%s\" was rejected.")
	message.SetString(lang, "notification.admin_broadcast.title", "Announcement")
	message.SetString(lang, "notification.admin_broadcast.body", "%s")
}
