package use_cases

import (
	"zanopay/internal/application/dto"
	"zanopay/internal/domain/entities"
)

func presentPayment(payment entities.Payment, requiredConfirmations int64) dto.PaymentResource {
	resource := dto.PaymentResource{
		OrderID:               payment.OrderID,
		PaymentIdentifier:     payment.PaymentIdentifier,
		IntegratedAddress:     payment.IntegratedAddress,
		AssetSymbol:           payment.AssetSymbol,
		RequiredAmount:        payment.RequiredAmount.String(),
		Status:                payment.Status.String(),
		Confirmations:         payment.Confirmations,
		RequiredConfirmations: requiredConfirmations,
		CreatedAt:             payment.CreatedAt,
		CompletedAt:           payment.CompletedAt,
	}
	if payment.ReceivedAmount != nil {
		value := payment.ReceivedAmount.String()
		resource.ReceivedAmount = &value
	}
	if payment.HasTxHash() {
		value := *payment.TxHash
		resource.TxHash = &value
	}

	return resource
}
