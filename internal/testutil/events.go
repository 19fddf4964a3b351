package testutil

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
)

// EncapBySQS encapslates each data by events.SQSMessage and returns them as one event.
func EncapBySQS(data ...interface{}) *events.SQSEvent {
	event := &events.SQSEvent{}
	for i, d := range data {
		raw, err := json.Marshal(d)
		if err != nil {
			log.Fatalf("Can not marshal: %+v: %v", err, d)
		}

		event.Records = append(event.Records, events.SQSMessage{
			MessageId: fmt.Sprintf("msg-%d", i),
			Body:      string(raw),
		})
	}

	return event
}
