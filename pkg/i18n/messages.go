package i18n

const (
	MsgInvalidBody   = "InvalidBody"
	MsgInvalidID     = "InvalidID"
	MsgInternalError = "InternalError"

	MsgTokenMissing       = "TokenMissing"
	MsgTokenInvalid       = "TokenInvalid"
	MsgUnauthenticated    = "Unauthenticated"
	MsgForbidden          = "Forbidden"
	MsgLoginSuccess       = "LoginSuccess"
	MsgInvalidCredentials = "InvalidCredentials"

	MsgEmptyCart             = "EmptyCart"
	MsgActorRequired         = "ActorRequired"
	MsgInvalidQuantity       = "InvalidQuantity"
	MsgSaleProductNotFound   = "SaleProductNotFound"
	MsgSaleInsufficientStock = "SaleInsufficientStock"
	MsgDuplicateRequest      = "DuplicateRequest"
	MsgConcurrentUpdate      = "ConcurrentUpdate"
	MsgSaleInternal          = "SaleInternal"
	MsgSalesListFailed       = "SalesListFailed"

	MsgProductNotFound      = "ProductNotFound"
	MsgNameAndPriceRequired = "NameAndPriceRequired"
	MsgInvalidPrice         = "InvalidPrice"
	MsgInvalidProductField  = "InvalidProductField"
	MsgBarcodeTaken         = "BarcodeTaken"
	MsgProductCreated       = "ProductCreated"
	MsgProductUpdated       = "ProductUpdated"
	MsgProductDeleted       = "ProductDeleted"
	MsgInsufficientStock    = "InsufficientStock"
	MsgEntryRecorded        = "EntryRecorded"
	MsgExitRecorded         = "ExitRecorded"
	MsgNoCriticalStock      = "NoCriticalStock"
	MsgNoCriticalExpiry     = "NoCriticalExpiry"

	MsgUserFieldsRequired = "UserFieldsRequired"
	MsgPasswordTooShort   = "PasswordTooShort"
	MsgInvalidRole        = "InvalidRole"
	MsgEmailTaken         = "EmailTaken"
	MsgUserNotFound       = "UserNotFound"
	MsgUserDeleted        = "UserDeleted"

	MsgAppointmentFieldsRequired = "AppointmentFieldsRequired"
	MsgInvalidAppointmentType    = "InvalidAppointmentType"
	MsgInvalidStatus             = "InvalidStatus"
	MsgAppointmentNotFound       = "AppointmentNotFound"
	MsgAppointmentCreateFailed   = "AppointmentCreateFailed"
	MsgAppointmentListFailed     = "AppointmentListFailed"
	MsgStatusUpdateFailed        = "StatusUpdateFailed"
)
