// Package helper holds small, stateless utility functions shared across
// the scheduler, config and command packages.
package helper

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/mitchellh/hashstructure"
)

// FindIP extracts an IPv4 address from a string, used by the EC2 worker
// directory to match a discovered instance's private IP against a
// tracker's advertised host, which sometimes carries a trailing port.
func FindIP(input string) string {
	numBlock := "(25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])"
	regexPattern := numBlock + "\\." + numBlock + "\\." + numBlock + "\\." + numBlock

	regEx := regexp.MustCompile(regexPattern)
	return regEx.FindString(input)
}

// Max returns the largest float from a variable length list of floats.
func Max(values ...float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Min returns the smallest float from a variable length list of floats.
func Min(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// HasConfigChanged compares two configuration objects by structural hash
// rather than deep equality, the same way the upstream scaling-policy diff
// decides whether a reload actually changed anything worth acting on.
func HasConfigChanged(objectA, objectB interface{}) (changed bool, err error) {
	hashA, err := hashstructure.Hash(objectA, nil)
	if err != nil {
		return false, fmt.Errorf("error hashing first object %v of type %v: %v",
			objectA, reflect.TypeOf(objectA), err)
	}

	hashB, err := hashstructure.Hash(objectB, nil)
	if err != nil {
		return false, fmt.Errorf("error hashing second object %v of type %v: %v",
			objectB, reflect.TypeOf(objectB), err)
	}

	return hashA != hashB, nil
}
