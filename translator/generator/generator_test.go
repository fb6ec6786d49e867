package generator_test

import (
	"testing"

	"github.com/dangerclosesec/transpiler/translator/earley"
	"github.com/dangerclosesec/transpiler/translator/generator"
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkGenerator(t *testing.T, src, expected string) {
	t.Helper()
	g, err := lang.Grammar()
	require.NoError(t, err)
	tokens, err := lang.LexerRules().Tokenize(src)
	require.NoError(t, err)
	root, err := earley.NewParser(g).Parse(tokens)
	require.NoError(t, err)

	out, err := generator.Generate(root)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	again, err := generator.Generate(root)
	require.NoError(t, err)
	assert.Equal(t, out, again, "generation must be deterministic")
}

func TestVar(t *testing.T) {
	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        char a = 'b';
        a = 'a';
    }
}
`, `#include <iostream>

void main(int argc, char *argv[])
{
    char a = 'b';
    a = 'a';
}
`)

	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        int i1 = 5;
        int i2 = (2 + i1) * ((10 - 2) / 5) % 3;
        float f1 = 5;
        float f2 = f1 / 2;
        double d1 = 5.5;
        double d2 = d1 - 2.15;
        char c1 = 'a';
        char c2 = c1 + 'b';
		boolean b1 = true;
		boolean b2 = !((true || false) && (5 == 2) || (2.5 < 5.1) || ('a' <= 'c') && !(i1 > i2) && (f2 >= f1) || (c1 != 'a'));
        System.out.println(i1 + 5);
    }
}`, `#include <iostream>

void main(int argc, char *argv[])
{
    int i1 = 5;
    int i2 = (2 + i1) * ((10 - 2) / 5) % 3;
    float f1 = 5;
    float f2 = f1 / 2;
    double d1 = 5.5;
    double d2 = d1 - 2.15;
    char c1 = 'a';
    char c2 = c1 + 'b';
    bool b1 = true;
    bool b2 = !((true || false) && (5 == 2) || (2.5 < 5.1) || ('a' <= 'c') && !(i1 > i2) && (f2 >= f1) || (c1 != 'a'));
    std::cout << i1 + 5 << "\n";
}
`)
}

func TestFor(t *testing.T) {
	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        for (int i = 0; i < 5; i++) {
            System.out.println(i);
        }
    }
}
`, `#include <iostream>

void main(int argc, char *argv[])
{
    for (int i = 0; i < 5; i++)
    {
        std::cout << i << "\n";
    }
}
`)

	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        for (int i = 0; i < 5; i++) {
            for (int j = (5 - i) * 2; j >= 0; j--) {
                System.out.println(i);
                System.out.println(j);
            }
        }
        for (int k = 0; k < 5; k = k + 2) {
        }
    }
}
`, `#include <iostream>

void main(int argc, char *argv[])
{
    for (int i = 0; i < 5; i++)
    {
        for (int j = (5 - i) * 2; j >= 0; j--)
        {
            std::cout << i << "\n";
            std::cout << j << "\n";
        }
    }
    for (int k = 0; k < 5; k = k + 2)
    {
    }
}
`)
}

func TestWhileAndDoWhile(t *testing.T) {
	checkGenerator(t, `
public class Main
{
        public static void main(String[] args) {
            int i = 0;
            while (i < 5) {
                double j = 2.5;
                while (i + j > 0) {
                    System.out.println(i + j);
                    j -= 0.5;
                }
                i++;
            }
            do {
                System.out.println(i);
                --i;
            }
            while (i > 0);
        }
}
`, `#include <iostream>

void main(int argc, char *argv[])
{
    int i = 0;
    while (i < 5)
    {
        double j = 2.5;
        while (i + j > 0)
        {
            std::cout << i + j << "\n";
            j -= 0.5;
        }
        i++;
    }
    do
    {
        std::cout << i << "\n";
        --i;
    }
    while (i > 0);
}
`)
}

func TestIf(t *testing.T) {
	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        if (true) {
            for (int i = 1; i < 7; i *= 2) {
                if (i < 5) {
                    int a = i;
                }
            }
        }
        else if (false) {
            int b = 1;
        } else {
            int a = 10;
        }
    }
}
`, `#include <iostream>

void main(int argc, char *argv[])
{
    if (true)
    {
        for (int i = 1; i < 7; i *= 2)
        {
            if (i < 5)
            {
                int a = i;
            }
        }
    }
    else if (false)
    {
        int b = 1;
    }
    else
    {
        int a = 10;
    }
}
`)
}

func TestUserFunctions(t *testing.T) {
	checkGenerator(t, `
    public class Main
    {
        public static void main(String[] args) {
            int i1 = 5;
            double d1 = 2.1;
            int i2 = cool_func(i1, d1);
            plus_print(i1, i2, 5);
            System.out.println(plus_float(2, 6));
            stop();
        }
        public static void plus_print(int a, int b, int c) {
            System.out.println(a + b + c);
        }
        public static float plus_float(float a, float b) {
            return a + b;
        }
        public static int cool_func(int a, double b) {
            if (b == 2.5) {
                a *= 2;
            }
            else {
                a += 15;
            }
            return a;
        }
        public static void stop() {
            return;
        }
        public static boolean yes(boolean b) {
            return b;
        }
    }
`, `#include <iostream>

void plus_print(int a, int b, int c)
{
    std::cout << a + b + c << "\n";
}

float plus_float(float a, float b)
{
    return a + b;
}

int cool_func(int a, double b)
{
    if (b == 2.5)
    {
        a *= 2;
    }
    else
    {
        a += 15;
    }
    return a;
}

void stop()
{
    return;
}

bool yes(bool b)
{
    return b;
}

void main(int argc, char *argv[])
{
    int i1 = 5;
    double d1 = 2.1;
    int i2 = cool_func(i1, d1);
    plus_print(i1, i2, 5);
    std::cout << plus_float(2, 6) << "\n";
    stop();
}
`)
}

func TestBuiltins(t *testing.T) {
	checkGenerator(t, `
public class Main
{
    public static void main(String[] args) {
        boolean b = true;
        int i = 5;
        System.out.println(5);
        System.out.println(b);
        System.out.println(Math.max(i, 5));
        System.out.println((i));
        i = Math.min(i, 2);
    }
}
        `, `#include <iostream>
#include <algorithm>

void main(int argc, char *argv[])
{
    bool b = true;
    int i = 5;
    std::cout << 5 << "\n";
    std::cout << b << "\n";
    std::cout << std::max(i, 5) << "\n";
    std::cout << (i) << "\n";
    i = std::min(i, 2);
}
`)
}

func TestPrintArgumentSeparators(t *testing.T) {
	// Not valid for the checker, but the generator still renders every
	// top-level argument as its own insertion.
	checkGenerator(t, `
public class Main {
    public static void main(String[] args) {
        System.out.println(1, Math.min(2, 3), 'c');
        {
            int x = 1;
        }
    }
}`, `#include <iostream>
#include <algorithm>

void main(int argc, char *argv[])
{
    std::cout << 1 << std::min(2, 3) << 'c' << "\n";
    {
        int x = 1;
    }
}
`)
}

func TestGenerateRejectsNonProgram(t *testing.T) {
	_, err := generator.Generate(nil)
	assert.Error(t, err)
}
