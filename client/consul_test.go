package client

import "testing"

func TestConsul_NewConsulStatusPublisher(t *testing.T) {
	addr := "127.0.0.1:8500"
	token := "afb3bc3a-6acd-11e7-b70c-784f43a63381"

	_, err := NewConsulStatusPublisher(addr, token, "capshare/status")
	if err != nil {
		t.Fatalf("error creating Consul status publisher: %s", err)
	}
}
