package oms

import "errors"

var (
	errDuplicateOrder       = errors.New("duplicate order")
	errOrderIDNotFound      = errors.New("orderID not found")
	errGatewayIDNotFound    = errors.New("gatewayID not found")
	errInvalidOrderStatus   = errors.New("invalid order status")
	errInvalidModifyQty     = errors.New("modify quantity not above filled quantity")
	errUnsupportedOrderType = errors.New("unsupported order type")
	errInvalidSide          = errors.New("invalid order side")
)
