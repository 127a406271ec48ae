package xmit_test

import (
	"testing"

	"github.com/72nd/escpr/internal/xmit"
	"github.com/stretchr/testify/require"
)

func TestSendAndCaptureRoundTrip(t *testing.T) {
	sink, err := xmit.ListenCaptureSink("127.0.0.1:0")
	require.NoError(t, err)
	defer sink.Close()

	payload := make([]byte, xmit.ChunkSize*2+17)
	for i := range payload {
		payload[i] = byte(i)
	}

	done := make(chan struct{})
	var captured []byte
	go func() {
		defer close(done)
		captured, _, _ = sink.AcceptJob()
	}()

	sender := xmit.NewSender(sink.Addr().String())
	_, err = sender.Send(payload)
	require.NoError(t, err)

	<-done
	require.Equal(t, payload, captured)
}
